package auth

import "golang.org/x/crypto/bcrypt"

// DoctorCredentials holds the clinic's single doctor account. The password is
// kept as a bcrypt hash so the plain text never lives in process memory
// longer than a login attempt.
type DoctorCredentials struct {
	Username     string
	PasswordHash string
	FullName     string
}

// Check verifies a username/password pair against the stored credentials.
func (c DoctorCredentials) Check(username, password string) bool {
	if username != c.Username {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) == nil
}

// HashPassword produces a bcrypt hash suitable for DOCTOR_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
