package recipe

import (
	"errors"
	"fmt"
)

// 外部查詢操作
const (
	OpLookupByIngredient = "lookup_by_ingredient"
	OpResolveDetail      = "resolve_detail"
)

// RemoteLookupError 外部食譜資料庫查詢失敗（網路錯誤、非成功狀態或格式錯誤）
type RemoteLookupError struct {
	Op  string // 查詢操作
	Key string // 食材名稱或食譜 ID
	Err error  // 原始錯誤
}

func (e *RemoteLookupError) Error() string {
	return fmt.Sprintf("remote %s %q: %v", e.Op, e.Key, e.Err)
}

// Unwrap 回傳原始錯誤
func (e *RemoteLookupError) Unwrap() error {
	return e.Err
}

// IsRemoteLookupError 檢查錯誤鏈中是否有外部查詢錯誤
func IsRemoteLookupError(err error) bool {
	var rle *RemoteLookupError
	return errors.As(err, &rle)
}
