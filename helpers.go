package deepmosaic

const (
	// MaxInt is the largest int value.
	MaxInt = int(^uint(0) >> 1)
	// MinInt is the smallest int value.
	MinInt = -MaxInt - 1
)

func IntMin(a int, elements ...int) int {
	res := a
	for _, val := range elements {
		if val < res {
			res = val
		}
	}
	return res
}

func IntMax(a int, elements ...int) int {
	res := a
	for _, val := range elements {
		if val > res {
			res = val
		}
	}
	return res
}

func IntAbs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

// ceilDiv returns ⌈a / b⌉ for a ≥ 0 and b > 0.
func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
