// Package content は、事前に用意されたブログ本文（HTMLフラグメント）の読み込みを提供します。
package content

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mizuasagi/folio/model"
)

// Loader はコンテンツディレクトリからスラグをキーとしてフラグメントを読み込みます。
type Loader struct {
	dir string
}

// NewLoader は新しいLoaderを作成します。
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Fragment は指定されたスラグの本文HTMLを返します。
// ファイルが存在しない場合はエラーではなく「本文準備中」状態として
// 空文字列とfalseを返します。
func (l *Loader) Fragment(slug *model.Slug) (string, bool, error) {
	path := filepath.Join(l.dir, slug.String()+".html")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read content fragment: %w", err)
	}
	return string(data), true, nil
}
