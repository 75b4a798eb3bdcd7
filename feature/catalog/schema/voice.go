package schema

import (
	"github.com/goccy/go-json"
)

// ParseVoiceBankIndex parses the voice bank directory listing.
func ParseVoiceBankIndex(data []byte) ([]string, error) {
	return parseFileList(data, "voice bank index")
}

// ParseVoiceBank parses the file listing of one voice bank.
func ParseVoiceBank(data []byte) ([]string, error) {
	return parseFileList(data, "voice bank")
}

func parseFileList(data []byte, what string) ([]string, error) {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, &ValidationError{Kind: "voice", Field: what, Reason: err.Error()}
	}
	if err := validate.Var(names, "required,dive,required"); err != nil {
		return nil, &ValidationError{Kind: "voice", Field: what, Reason: err.Error()}
	}
	return names, nil
}
