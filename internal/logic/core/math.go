package core

import "math/bits"

// 费用与金额路径上的算术一律饱和，恶意构造的极值不会回绕。

func SaturatingAdd64(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return ^uint64(0)
	}
	return sum
}

func SaturatingMul64(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return ^uint64(0)
	}
	return lo
}

// MulDiv64 计算 a*b/div，中间积走 128 bit，不会在除法前溢出；
// 商超出 uint64 时饱和。div 为 0 返回 0。
func MulDiv64(a, b, div uint64) uint64 {
	if div == 0 {
		return 0
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= div {
		return ^uint64(0)
	}
	quo, _ := bits.Div64(hi, lo, div)
	return quo
}
