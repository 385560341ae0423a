package workspace

import "errors"

// 各エラーはリクエスト境界で errors.Is により判別され、HTTPステータスへ変換されます。
var (
	// ErrPathTraversal は解決後のパスがリポジトリルートの外を指す場合に返されます。
	ErrPathTraversal = errors.New("path escapes repository root")

	// ErrNotFound は対象が存在しない、または種別が不一致（ファイル期待で
	// ディレクトリ等）の場合に返されます。
	ErrNotFound = errors.New("not found")

	// ErrDecode はファイル内容をUTF-8テキストとして読めない場合に返されます。
	ErrDecode = errors.New("file content is not valid UTF-8 text")

	// ErrTooLarge は設定された読み取り上限を超えるファイルに対して返されます。
	ErrTooLarge = errors.New("file exceeds configured size limit")

	// ErrExists は overwrite=false で既存ファイルへ書き込もうとした場合に返されます。
	ErrExists = errors.New("file already exists")

	// ErrNotImplemented は未実装の操作（PR diff）に対して返されます。
	ErrNotImplemented = errors.New("not implemented")
)
