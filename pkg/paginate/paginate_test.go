package paginate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		n, size, want int
	}{
		{0, 24, 1},
		{1, 24, 1},
		{24, 24, 1},
		{25, 24, 2},
		{100, 24, 5},
		{100, 0, 5},
		{100, -3, 5},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.n, tt.size); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.n, tt.size, got, tt.want)
		}
	}
}

func TestPaginateClampsPage(t *testing.T) {
	items := seq(100)

	p := Paginate(items, 24, 6)
	assert.Equal(t, 5, p.Page)
	assert.Equal(t, 5, p.TotalPages)
	assert.Equal(t, []int{96, 97, 98, 99}, p.Items)

	p = Paginate(items, 24, 0)
	assert.Equal(t, 1, p.Page)
	assert.Len(t, p.Items, 24)
	assert.Equal(t, 0, p.Items[0])
}

func TestPaginateEmpty(t *testing.T) {
	p := Paginate([]string(nil), 24, 3)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 1, p.TotalPages)
	assert.Equal(t, 0, p.TotalItems)
	assert.NotNil(t, p.Items)
	assert.Empty(t, p.Items)
}

func TestPaginateCoversEveryItemOnce(t *testing.T) {
	for _, n := range []int{0, 1, 23, 24, 25, 100, 101} {
		for _, size := range []int{1, 7, 24, 200} {
			items := seq(n)
			total := TotalPages(n, size)

			var got []int
			for page := 1; page <= total; page++ {
				p := Paginate(items, size, page)
				assert.LessOrEqual(t, len(p.Items), size)
				got = append(got, p.Items...)
			}
			assert.Len(t, got, n, "n=%d size=%d", n, size)
			if n > 0 {
				assert.Equal(t, items, got)
			}
		}
	}
}

func TestPaginateDefaultPageSize(t *testing.T) {
	p := Paginate(seq(30), 0, 1)
	assert.Equal(t, DefaultPageSize, p.PageSize)
	assert.Len(t, p.Items, DefaultPageSize)
}

func TestPaginateCopiesItems(t *testing.T) {
	items := seq(10)
	p := Paginate(items, 5, 1)
	p.Items[0] = 42
	assert.Equal(t, 0, items[0])
}
