package utils

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const inviteCodeAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// GenerateInviteCode returns a short human-shareable code. The alphabet
// drops easily confused characters (0/O, 1/I).
func GenerateInviteCode() string {
	code, err := gonanoid.Generate(inviteCodeAlphabet, 8)
	if err != nil {
		return ""
	}
	return code
}
