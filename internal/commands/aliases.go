package commands

import (
	"fmt"
	"strings"
)

// Canonical slash commands, always recognized regardless of configuration.
const (
	CmdSubscribe   = "/start"
	CmdUnsubscribe = "/stop"
	CmdStatus      = "/status"
)

// Intent identifies a recognized command group.
type Intent string

const (
	IntentSubscribe   Intent = "subscribe"
	IntentUnsubscribe Intent = "unsubscribe"
	IntentStatus      Intent = "status"
)

// Aliases lists extra configured spellings per intent, typically localized
// button labels.
type Aliases struct {
	Subscribe   []string
	Unsubscribe []string
	Status      []string
}

// AliasTable maps literal inbound strings to intents. Matching is exact:
// casing or punctuation differences fall through to unrecognized.
type AliasTable map[string]Intent

var canonicalAliases = map[string]Intent{
	CmdSubscribe:   IntentSubscribe,
	CmdUnsubscribe: IntentUnsubscribe,
	CmdStatus:      IntentStatus,
}

// NewAliasTable builds the lookup table from the canonical commands plus the
// configured aliases. An alias claimed by two different intents is an error.
func NewAliasTable(extra Aliases) (AliasTable, error) {
	table := make(AliasTable, len(canonicalAliases))
	for alias, intent := range canonicalAliases {
		table[alias] = intent
	}

	add := func(list []string, intent Intent) error {
		for _, raw := range list {
			alias := strings.TrimSpace(raw)
			if alias == "" {
				continue
			}
			if existing, ok := table[alias]; ok && existing != intent {
				return fmt.Errorf("commands: alias %q maps to both %s and %s", alias, existing, intent)
			}
			table[alias] = intent
		}
		return nil
	}

	if err := add(extra.Subscribe, IntentSubscribe); err != nil {
		return nil, err
	}
	if err := add(extra.Unsubscribe, IntentUnsubscribe); err != nil {
		return nil, err
	}
	if err := add(extra.Status, IntentStatus); err != nil {
		return nil, err
	}
	return table, nil
}

// Lookup resolves trimmed inbound text to an intent.
func (t AliasTable) Lookup(text string) (Intent, bool) {
	intent, ok := t[text]
	return intent, ok
}
