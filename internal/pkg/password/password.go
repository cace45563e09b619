package password

import (
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

const Cost = 12

var hashedPattern = regexp.MustCompile(`^\$2[abxy]\$\d{2}\$`)

func Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), Cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// IsHashed reports whether v already looks like a bcrypt hash, so imported
// staff records are not hashed twice.
func IsHashed(v string) bool {
	return hashedPattern.MatchString(v)
}

func Compare(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
