package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageRequestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		in        PageRequest
		wantIndex int
		wantErr   error
	}{
		{name: "first page", in: PageRequest{PageIndex: 1, PageSize: 10}, wantIndex: 1},
		{name: "zero index", in: PageRequest{PageIndex: 0, PageSize: 10}, wantIndex: 1},
		{name: "negative index", in: PageRequest{PageIndex: -4, PageSize: 10}, wantIndex: 1},
		{name: "later page", in: PageRequest{PageIndex: 7, PageSize: 5}, wantIndex: 7},
		{name: "max size", in: PageRequest{PageIndex: 1, PageSize: MaxPageSize}, wantIndex: 1},
		{name: "zero size", in: PageRequest{PageIndex: 1, PageSize: 0}, wantErr: ErrInvalidPageSize},
		{name: "negative size", in: PageRequest{PageIndex: 1, PageSize: -1}, wantErr: ErrInvalidPageSize},
		{name: "oversized", in: PageRequest{PageIndex: 1, PageSize: MaxPageSize + 1}, wantErr: ErrInvalidPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.in.Normalize()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantIndex, got.PageIndex)
			assert.Equal(t, tt.in.PageSize, got.PageSize)
		})
	}
}

func TestPageRequestOffset(t *testing.T) {
	assert.Equal(t, 0, PageRequest{PageIndex: 1, PageSize: 10}.Offset())
	assert.Equal(t, 20, PageRequest{PageIndex: 3, PageSize: 10}.Offset())
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 0, PageCount(0, 10))
	assert.Equal(t, 1, PageCount(1, 10))
	assert.Equal(t, 1, PageCount(10, 10))
	assert.Equal(t, 2, PageCount(11, 10))
	assert.Equal(t, 0, PageCount(5, 0))
}

func TestNewPageResultNeverNilItems(t *testing.T) {
	res := NewPageResult[User](PageRequest{PageIndex: 4, PageSize: 10}, nil, 31)
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
	assert.Equal(t, int64(31), res.Total)
	assert.Equal(t, 4, res.PageCount)
	assert.Equal(t, 4, res.PageIndex)
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "enabled", StatusLabel(true))
	assert.Equal(t, "disabled", (&BlockEntity{}).StatusLabel())
}
