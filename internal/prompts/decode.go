package prompts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mikey/email-reconciler/internal/core"
	"github.com/mikey/email-reconciler/internal/recipient"
	"github.com/mikey/email-reconciler/internal/utils"
)

// RecipientResponse is the reply to RecipientPrompt
type RecipientResponse struct {
	Name1      string  `json:"name1"`
	Name2      string  `json:"name2"`
	Genre      string  `json:"genre"`
	Email      string  `json:"email"`
	IsPersonal *bool   `json:"is_personal"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// MatchResponse is the reply to MatchPrompt
type MatchResponse struct {
	BestMatchID         flexID   `json:"best_match_id"`
	Confidence          float64  `json:"confidence"`
	Reasoning           string   `json:"reasoning"`
	AlternativeMatchIDs []flexID `json:"alternative_match_ids"`
}

// flexID accepts ids the model returns as numbers as well as strings
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	if _, err := strconv.ParseFloat(string(data), 64); err != nil {
		return fmt.Errorf("invalid id %s", data)
	}
	*f = flexID(data)
	return nil
}

// DecodeRecipient parses a model reply into an untrusted extraction. A reply
// without is_personal is personal unless the address is a role account;
// email stands in when the reply has none.
func DecodeRecipient(tp *utils.TextProcessor, text, email string) (*core.LLMExtractionResult, error) {
	var resp RecipientResponse
	if err := decode(tp, text, &resp); err != nil {
		return nil, err
	}
	if resp.Email != "" {
		email = resp.Email
	}
	isPersonal := !recipient.IsServiceAddress(email)
	if resp.IsPersonal != nil {
		isPersonal = *resp.IsPersonal
	}
	return &core.LLMExtractionResult{
		Name1:      resp.Name1,
		Name2:      resp.Name2,
		Genre:      core.Genre(resp.Genre),
		Email:      resp.Email,
		IsPersonal: isPersonal,
		Confidence: resp.Confidence,
		Reasoning:  resp.Reasoning,
	}, nil
}

// DecodeMatch parses a model reply into a match result
func DecodeMatch(tp *utils.TextProcessor, text, model string) (*core.LLMMatchResult, error) {
	var resp MatchResponse
	if err := decode(tp, text, &resp); err != nil {
		return nil, err
	}
	result := &core.LLMMatchResult{
		BestMatchID: string(resp.BestMatchID),
		Confidence:  resp.Confidence,
		Reasoning:   resp.Reasoning,
		ModelUsed:   model,
	}
	for _, id := range resp.AlternativeMatchIDs {
		if id != "" {
			result.AlternativeMatchIDs = append(result.AlternativeMatchIDs, string(id))
		}
	}
	return result, nil
}

func decode(tp *utils.TextProcessor, text string, v any) error {
	if err := json.Unmarshal([]byte(text), v); err == nil {
		return nil
	}
	obj, err := tp.ExtractJSONObject(text)
	if err != nil {
		return fmt.Errorf("failed to extract JSON from LLM response: %w", err)
	}
	if err := json.Unmarshal([]byte(obj), v); err != nil {
		return fmt.Errorf("failed to parse LLM response as JSON: %w", err)
	}
	return nil
}
