package services

import (
	"context"
	"log"
	"time"

	helper "github.com/pricile448/amcb-sub000/utils"
)

const (
	codeTTL       = 15 * time.Minute
	maxAttempts   = 3
	SweepInterval = 5 * time.Minute
)

// VerificationService runs the email verification flow: issue a 6-digit
// code, accept at most three attempts before it burns, flip the user's
// emailVerified flag on success.
type VerificationService struct {
	store  CodeStore
	mailer Mailer
	users  UserService

	// debugMode keeps the issue endpoint failing open when the mail
	// provider is down, handing the code back in the response instead.
	// Demo behaviour, explicitly opt-in.
	debugMode bool

	now      func() time.Time
	generate func() string
}

func VerificationConstructor(store CodeStore, mailer Mailer, users UserService, debugMode bool) *VerificationService {
	return &VerificationService{
		store:     store,
		mailer:    mailer,
		users:     users,
		debugMode: debugMode,
		now:       time.Now,
		generate:  helper.GenerateVerificationCode,
	}
}

// RequestCode issues a fresh code for email, overwriting any previous one.
// When the mailer fails and debug mode is on, the code is returned with
// debug=true so the caller can surface it directly.
func (v *VerificationService) RequestCode(ctx context.Context, email string) (code string, debug bool, err error) {
	code = v.generate()
	v.store.Put(email, CodeEntry{
		Code:      code,
		ExpiresAt: v.now().Add(codeTTL),
		Attempts:  0,
	})

	if err := v.mailer.SendVerificationCode(email, code); err != nil {
		if v.debugMode {
			log.Printf("verification: mail send failed for %s, falling back to debug mode: %v", email, err)
			return code, true, nil
		}
		return "", false, err
	}
	return code, false, nil
}

// VerifyCode checks a submitted code. Expiry is checked lazily here as well
// as by the periodic sweep; the third wrong attempt burns the entry.
func (v *VerificationService) VerifyCode(ctx context.Context, email, code string) error {
	entry, ok := v.store.Get(email)
	if !ok {
		return ErrCodeNotFound
	}
	if v.now().After(entry.ExpiresAt) {
		v.store.Delete(email)
		return ErrCodeExpired
	}
	if entry.Code != code {
		entry.Attempts++
		if entry.Attempts >= maxAttempts {
			v.store.Delete(email)
			return ErrTooManyAttempts
		}
		v.store.Put(email, entry)
		return ErrCodeIncorrect
	}

	v.store.Delete(email)
	return v.users.MarkEmailVerified(ctx, email)
}
