package util

import "strconv"

const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

func Normalize(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

func Calculate(page, size int) (from, limit int) {
	page, size = Normalize(page, size)
	from = (page - 1) * size
	return from, size
}

func TotalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
