package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
)

// InitAnswers holds what the init wizard collected.
type InitAnswers struct {
	Key   string
	Model string
}

// RunInitWizard asks for the Gemini API key and model. The model field starts
// with defaultModel.
func RunInitWizard(defaultModel string) (InitAnswers, error) {
	a := InitAnswers{Model: defaultModel}

	err := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Gemini API key").
			Description("Leave empty to reference ${GEMINI_API_KEY} from the environment.").
			EchoMode(huh.EchoModePassword).
			Value(&a.Key),
		huh.NewInput().
			Title("Model").
			Value(&a.Model).
			Validate(validateNotBlank),
	)).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return InitAnswers{}, ErrCancelled
		}
		return InitAnswers{}, err
	}

	a.Key = strings.TrimSpace(a.Key)
	if a.Key == "" {
		a.Key = "${GEMINI_API_KEY}"
	}
	a.Model = strings.TrimSpace(a.Model)
	return a, nil
}

func validateNotBlank(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("must not be empty")
	}
	return nil
}
