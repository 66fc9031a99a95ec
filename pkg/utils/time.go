package utils

import (
	"math/rand"
	"sync"
	"time"
)

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var (
	// overridable in tests
	timeNow = time.Now

	randomGenerator     = rand.New(rand.NewSource(time.Now().UnixNano()))
	randomGeneratorLock sync.Mutex
)

// GetTimeNow returns the current time.
func GetTimeNow() time.Time {
	return timeNow()
}

// SetTimeNow replaces the time source and returns the previous one.
func SetTimeNow(fn func() time.Time) func() time.Time {
	old := timeNow
	timeNow = fn
	return old
}

// GetTimestamp returns the current Unix time in milliseconds.
func GetTimestamp() int64 {
	return GetTimeNow().UnixMilli()
}

// SetRandomSeed reseeds the generator behind RandomString.
func SetRandomSeed(seed int64) {
	randomGeneratorLock.Lock()
	defer randomGeneratorLock.Unlock()
	randomGenerator = rand.New(rand.NewSource(seed))
}

// RandomString returns length characters drawn from [a-zA-Z0-9].
func RandomString(length int) string {
	randomGeneratorLock.Lock()
	defer randomGeneratorLock.Unlock()

	result := make([]byte, length)
	for i := range result {
		result[i] = alphanumeric[randomGenerator.Intn(len(alphanumeric))]
	}
	return string(result)
}
