package utils

import (
	"fmt"
	"log"
	"math/rand"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) string {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		log.Panic(err)
	}
	return string(bytes)
}

func VerifyPassword(userpassword string, givenpassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(givenpassword), []byte(userpassword))
	return err == nil
}

// GenerateVerificationCode returns a 6-digit numeric code, zero-padded.
func GenerateVerificationCode() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}
