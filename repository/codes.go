package repository

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// GenerateQuoteReference returns a short human-readable quote number such as
// "QT-KX48213".
func GenerateQuoteReference() string {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	letters := "ABCDEFGHJKLMNPQRSTUVWXYZ"
	prefix := string(letters[rng.Intn(len(letters))]) + string(letters[rng.Intn(len(letters))])
	number := rng.Intn(90000) + 10000

	return fmt.Sprintf("QT-%s%d", prefix, number)
}

// NextVersion bumps the minor part of a "major.minor" calculator version.
// Anything unparseable restarts at "1.0".
func NextVersion(previous string) string {
	if previous == "" {
		return "1.0"
	}

	major, minor, found := strings.Cut(strings.TrimPrefix(previous, "v"), ".")
	if !found {
		minor = "0"
	}
	majorNum, err := strconv.Atoi(major)
	if err != nil {
		return "1.0"
	}
	minorNum, err := strconv.Atoi(minor)
	if err != nil {
		return "1.0"
	}

	return fmt.Sprintf("%d.%d", majorNum, minorNum+1)
}
