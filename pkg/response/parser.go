// Package response splits a raw game-master reply into human-readable
// narrative and the machine-readable state payload.
package response

import (
	"encoding/json"
	"regexp"
	"strings"
)

// stateFence matches the first ```json fenced block.
var stateFence = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// Result is the outcome of parsing one raw reply. State is nil when no
// well-formed payload was recovered; Narrative is always set.
type Result struct {
	Narrative string
	State     map[string]any
}

// Parse separates narrative from the fenced state payload. It performs
// no schema validation; that is the migration layer's job, applied by
// the caller afterward.
//
// No fence: the whole input is narrative and State is nil. A fence with
// malformed contents also yields a nil State, with a diagnostic folded
// into the narrative so the failure is visible instead of swallowed.
// Parse never returns an error.
func Parse(raw string) Result {
	loc := stateFence.FindStringSubmatchIndex(raw)
	if loc == nil {
		return Result{Narrative: strings.TrimSpace(raw)}
	}

	narrative := strings.TrimSpace(raw[:loc[0]])
	payload := raw[loc[2]:loc[3]]

	var doc map[string]any
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return Result{
			Narrative: "Erro ao processar a resposta da IA. O bloco JSON estava malformado.\n\n" + strings.TrimSpace(raw),
		}
	}
	return Result{Narrative: narrative, State: doc}
}
