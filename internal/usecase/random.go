package usecase

import "lukechampine.com/frand"

// SecureRandom はfrandを使う本番用の乱数源
type SecureRandom struct{}

func (SecureRandom) Intn(n int) int { return frand.Intn(n) }

func (SecureRandom) Float64() float64 { return frand.Float64() }
