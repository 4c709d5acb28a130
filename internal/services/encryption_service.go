package services

import (
	"vitalog/internal/crypto"
	"vitalog/internal/models"
)

// EncryptionService wraps the cipher with domain-specific methods for the
// fields we keep encrypted at rest: user emails and challenge titles.
type EncryptionService struct {
	cipher *crypto.Cipher
}

func NewEncryptionService(encryptionKey, blindIndexKey []byte) (*EncryptionService, error) {
	cipher, err := crypto.NewCipher(encryptionKey, blindIndexKey)
	if err != nil {
		return nil, err
	}
	return &EncryptionService{cipher: cipher}, nil
}

// EncryptUser encrypts the email and fills its blind index before the
// user row is stored.
func (s *EncryptionService) EncryptUser(user *models.User) error {
	encrypted, err := s.cipher.Encrypt(user.Email)
	if err != nil {
		return err
	}
	user.EmailBlindIndex = s.cipher.BlindIndex(user.Email)
	user.Email = encrypted
	return nil
}

// DecryptUser restores the plaintext email after a read.
func (s *EncryptionService) DecryptUser(user *models.User) error {
	decrypted, err := s.cipher.Decrypt(user.Email)
	if err != nil {
		return err
	}
	user.Email = decrypted
	return nil
}

// EmailBlindIndex returns the lookup key for an email address.
func (s *EncryptionService) EmailBlindIndex(email string) string {
	return s.cipher.BlindIndex(email)
}

// EncryptEntry encrypts the challenge title, the one free-text payload
// field, before the entry is stored. Other payload fields are numeric.
func (s *EncryptionService) EncryptEntry(entry *models.JournalEntry) error {
	if entry.ChallengeTitle == nil || *entry.ChallengeTitle == "" {
		return nil
	}
	encrypted, err := s.cipher.Encrypt(*entry.ChallengeTitle)
	if err != nil {
		return err
	}
	entry.ChallengeTitle = &encrypted
	return nil
}

// DecryptEntry restores the challenge title after a read.
func (s *EncryptionService) DecryptEntry(entry *models.JournalEntry) error {
	if entry.ChallengeTitle == nil || *entry.ChallengeTitle == "" {
		return nil
	}
	decrypted, err := s.cipher.Decrypt(*entry.ChallengeTitle)
	if err != nil {
		return err
	}
	entry.ChallengeTitle = &decrypted
	return nil
}
