package loans

import (
	"errors"
	"fmt"
	"strconv"
)

// 借器材表單
var (
	ErrMalformedShape    = errors.New("borrow form needs at least three lines")
	ErrMissingFields     = errors.New("borrow form is missing a required field")
	ErrInvalidDateFormat = errors.New("date is not YYYY.MM.DD")
	ErrInvalidDateOrder  = errors.New("return date is before borrow date")
)

// 查詢
var (
	ErrStoreMissing    = errors.New("loan sheet does not exist")
	ErrInvalidArgument = errors.New("invalid query argument")

	errInvalidDay   = fmt.Errorf("%w: date is not YYYY.MM.DD", ErrInvalidArgument)
	errInvalidMonth = fmt.Errorf("%w: month is not YYYY.MM", ErrInvalidArgument)
)

// 刪除
var (
	ErrInvalidIndex    = errors.New("record index must be a positive integer")
	ErrIndexOutOfRange = errors.New("record index out of range")
	ErrFieldNotFound   = errors.New("returnedAt column not found")
	ErrProcessing      = errors.New("failed to process record")
)

// UnparsableLineError 表單中有一行不是「欄位：值」
type UnparsableLineError struct {
	Line string
}

func (e *UnparsableLineError) Error() string {
	return fmt.Sprintf("cannot parse line %q", e.Line)
}

// IndexOutOfRangeError 記錄編號超出可操作清單
type IndexOutOfRangeError struct {
	Index int
	Raw   string // 超出 int 時保留使用者輸入
}

func (e *IndexOutOfRangeError) number() string {
	if e.Raw != "" {
		return e.Raw
	}
	return strconv.Itoa(e.Index)
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("record %s does not exist", e.number())
}

func (e *IndexOutOfRangeError) Is(target error) bool { return target == ErrIndexOutOfRange }

// Message 把錯誤轉成回覆給使用者的文字
func Message(err error) string {
	var lineErr *UnparsableLineError
	var rangeErr *IndexOutOfRangeError
	switch {
	case errors.As(err, &lineErr):
		return fmt.Sprintf("格式錯誤：無法解析「%s」", lineErr.Line)
	case errors.As(err, &rangeErr):
		return fmt.Sprintf("記錄編號 %s 不存在，請先使用「我的租借」查看可操作的記錄。", rangeErr.number())
	case errors.Is(err, ErrMalformedShape):
		return "格式錯誤：請使用四行格式（借器材：租用器材／租用日期／歸還日期）"
	case errors.Is(err, ErrMissingFields):
		return "格式錯誤：三個欄位皆必填（租用器材／租用日期／歸還日期）"
	case errors.Is(err, ErrInvalidDateFormat):
		return "日期格式錯誤：請用 YYYY.MM.DD（例如 2025.09.03）"
	case errors.Is(err, ErrInvalidDateOrder):
		return "日期邏輯錯誤：歸還日期不可早於租用日期"
	case errors.Is(err, errInvalidMonth):
		return "月份格式錯誤，請用 YYYY.MM"
	case errors.Is(err, ErrInvalidArgument):
		return "日期格式錯誤，請用 YYYY.MM.DD"
	case errors.Is(err, ErrStoreMissing):
		return fmt.Sprintf("找不到工作表：%s", SheetName)
	case errors.Is(err, ErrInvalidIndex):
		return "記錄編號格式錯誤，請輸入正確的數字。"
	case errors.Is(err, ErrFieldNotFound):
		return "更新租借記錄時發生錯誤，請稍後再試。"
	default:
		return "處理記錄時發生錯誤，請稍後再試。"
	}
}
