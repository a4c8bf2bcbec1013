package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Константы валидации
const (
	MinUsernameLength           = 3
	MaxUsernameLength           = 30
	MinServiceTitleLength       = 3
	MaxServiceTitleLength       = 200
	MinServiceDescriptionLength = 10
	MaxServiceDescriptionLength = 5000
	MaxRequirementsLength       = 5000
	MaxScopeLength              = 5000
	MinMessageLength            = 1
	MaxMessageLength            = 5000
	MaxCategoryNameLength       = 100
	MaxTagLength                = 50
	MaxTagsCount                = 20
	MinReviewRating             = 1
	MaxReviewRating             = 5
	MaxReviewCommentLength      = 2000
)

// ValidateLength проверяет длину строки в рунах.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	email = strings.ToLower(strings.TrimSpace(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("некорректный формат email")
	}

	localPart, domainPart := parts[0], parts[1]
	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}
	if len(domainPart) == 0 || len(domainPart) > 255 || !strings.Contains(domainPart, ".") {
		return fmt.Errorf("некорректный домен email")
	}

	return nil
}

// ValidateUsername проверяет имя пользователя.
func ValidateUsername(username string) error {
	if err := ValidateLength("username", username, MinUsernameLength, MaxUsernameLength); err != nil {
		return err
	}
	for _, r := range username {
		if !isUsernameRune(r) {
			return fmt.Errorf("username может содержать только латинские буквы, цифры, точку, дефис и подчёркивание")
		}
	}
	return nil
}

func isUsernameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '.', r == '-', r == '_':
		return true
	}
	return false
}

// ValidatePrice проверяет, что цена услуги строго положительна.
func ValidatePrice(price decimal.Decimal) error {
	if price.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("цена должна быть больше нуля")
	}
	return nil
}

// ValidateTags проверяет список тегов услуги.
func ValidateTags(tags []string) error {
	if len(tags) > MaxTagsCount {
		return fmt.Errorf("не более %d тегов", MaxTagsCount)
	}
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("тег не может быть пустым")
		}
		if err := ValidateLength("тег", tag, 1, MaxTagLength); err != nil {
			return err
		}
	}
	return nil
}

// ValidateRating проверяет оценку отзыва.
func ValidateRating(rating int) error {
	if rating < MinReviewRating || rating > MaxReviewRating {
		return fmt.Errorf("оценка должна быть от %d до %d", MinReviewRating, MaxReviewRating)
	}
	return nil
}
