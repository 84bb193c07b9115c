package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuccessWithPagination(t *testing.T) {
	r := SuccessWithPagination(200, []int{1, 2}, 2, 20, 41)

	assert.Equal(t, "success", r.Status)
	assert.Equal(t, int64(3), r.Pagination.TotalPages)
	assert.Equal(t, 2, r.Pagination.Page)
}

func TestError(t *testing.T) {
	r := Error(404, "tariff not found")

	assert.Equal(t, "error", r.Status)
	assert.Nil(t, r.Data)
	assert.Nil(t, r.Pagination)
}
