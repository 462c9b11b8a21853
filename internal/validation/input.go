package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Константы валидации
const (
	MinUsernameLength            = 3
	MaxUsernameLength            = 30
	MaxNameLength                = 100
	MinProposalDescriptionLength = 1
	MaxProposalDescriptionLength = 50
	MaxProposalCost              = 1_000_000_000.0
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.]+$`)

// ValidateLength проверяет длину строки.
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

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidateProposalDescription проверяет описание предложения: до 50 символов и без цифр.
func ValidateProposalDescription(description string) error {
	description = strings.TrimSpace(description)
	if err := ValidateNonEmpty("описание", description); err != nil {
		return err
	}

	if err := ValidateLength("описание", description, MinProposalDescriptionLength, MaxProposalDescriptionLength); err != nil {
		return err
	}

	for _, r := range description {
		if unicode.IsDigit(r) {
			return fmt.Errorf("описание не может содержать цифры")
		}
	}

	return nil
}

// ValidateProposalCost проверяет стоимость предложения без учёта бюджета.
func ValidateProposalCost(cost float64) error {
	if cost <= 0 {
		return fmt.Errorf("стоимость должна быть положительной")
	}
	if cost > MaxProposalCost {
		return fmt.Errorf("стоимость не может превышать %.0f", MaxProposalCost)
	}
	return nil
}

// ValidateUsername проверяет имя пользователя.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("имя пользователя обязательно")
	}

	username = strings.TrimSpace(username)

	if err := ValidateLength("имя пользователя", username, MinUsernameLength, MaxUsernameLength); err != nil {
		return err
	}

	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("имя пользователя может содержать только буквы, цифры, точку и подчеркивание")
	}

	if unicode.IsDigit(rune(username[0])) {
		return fmt.Errorf("имя пользователя не может начинаться с цифры")
	}

	return nil
}

// ValidatePersonName проверяет имя или фамилию.
func ValidatePersonName(fieldName, value string) error {
	if err := ValidateNonEmpty(fieldName, value); err != nil {
		return err
	}
	return ValidateLength(fieldName, strings.TrimSpace(value), 1, MaxNameLength)
}
