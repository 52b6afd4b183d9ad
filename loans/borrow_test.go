package loans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBorrow(t *testing.T) {
	draft, err := ParseBorrow("借器材\n租用器材：相機A, 三腳架, 燈具\n租用日期：2025.09.10\n歸還日期：2025.09.12", loc)
	require.NoError(t, err)
	assert.Equal(t, "相機A, 三腳架, 燈具", draft.Items)
	assert.Equal(t, day(2025, 9, 10), draft.BorrowedAt)
	assert.Equal(t, day(2025, 9, 12), draft.ReturnedAt)
}

func TestParseBorrow_Variants(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		items string
	}{
		{"ascii colon and fullwidth comma", "借器材\n租用器材:相機A，三腳架\n租用日期: 2025.09.10\n歸還日期 : 2025.09.12", "相機A, 三腳架"},
		{"crlf and blank lines", "借器材\r\n\r\n租用器材：相機A\r\n\r\n租用日期：2025.09.10\r\n歸還日期：2025.09.12\r\n", "相機A"},
		{"first field on keyword line", "借器材 租用器材：相機A\n租用日期：2025.09.10\n歸還日期：2025.09.12", "相機A"},
		{"keyword omitted", "租用器材：相機A\n租用日期：2025.09.10\n歸還日期：2025.09.12", "相機A"},
		{"empty tokens dropped", "借器材\n租用器材：,相機A,, ，燈具,\n租用日期：2025.09.10\n歸還日期：2025.09.12", "相機A, 燈具"},
		{"fullwidth space around colon", "借器材\n租用器材　：相機A\n租用日期：　2025.09.10\n歸還日期　：　2025.09.12", "相機A"},
		{"fullwidth space after keyword", "借器材　租用器材：相機A\n租用日期：2025.09.10\n歸還日期：2025.09.12", "相機A"},
		{"field order free", "借器材\n歸還日期：2025.09.12\n租用日期：2025.09.10\n租用器材：燈具", "燈具"},
		{"duplicate label last wins", "借器材\n租用器材：相機A\n租用器材：燈具\n租用日期：2025.09.10\n歸還日期：2025.09.12", "燈具"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft, err := ParseBorrow(tt.raw, loc)
			require.NoError(t, err)
			assert.Equal(t, tt.items, draft.Items)
		})
	}
}

func TestParseBorrow_SameDayAllowed(t *testing.T) {
	draft, err := ParseBorrow("借器材\n租用器材：相機A\n租用日期：2025.09.10\n歸還日期：2025.09.10", loc)
	require.NoError(t, err)
	assert.Equal(t, draft.BorrowedAt, draft.ReturnedAt)
}

func TestParseBorrow_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"only keyword", "借器材", ErrMalformedShape},
		{"two lines", "借器材\n租用器材：相機A\n租用日期：2025.09.10", ErrMalformedShape},
		{"missing return date", "借器材\n租用器材：相機A\n租用日期：2025.09.10\n租用日期：2025.09.11", ErrMissingFields},
		{"items all commas", "借器材\n租用器材：, ，,\n租用日期：2025.09.10\n歸還日期：2025.09.12", ErrMissingFields},
		{"dash date", "借器材\n租用器材：相機A\n租用日期：2025-09-10\n歸還日期：2025.09.12", ErrInvalidDateFormat},
		{"unpadded date", "借器材\n租用器材：相機A\n租用日期：2025.09.10\n歸還日期：2025.9.12", ErrInvalidDateFormat},
		{"return before borrow", "借器材\n租用器材：相機A\n租用日期：2025.09.12\n歸還日期：2025.09.10", ErrInvalidDateOrder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBorrow(tt.raw, loc)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseBorrow_UnparsableLine(t *testing.T) {
	_, err := ParseBorrow("借器材\n租用器材：相機A\n備註：小心輕放\n歸還日期：2025.09.12", loc)

	var lineErr *UnparsableLineError
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, "備註：小心輕放", lineErr.Line)
	assert.NotErrorIs(t, err, ErrMissingFields)
	assert.Equal(t, "格式錯誤：無法解析「備註：小心輕放」", Message(err))
}
