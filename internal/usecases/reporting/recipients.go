package reporting

import "strings"

// DefaultRecipientSuffix é o sufixo de canal aplicado a números sem domínio
const DefaultRecipientSuffix = "@c.us"

// NormalizeRecipients separa a lista por vírgulas, remove vazios e repetidos
// (mantendo a primeira ocorrência) e completa o sufixo quando não há "@".
func NormalizeRecipients(raw, suffix string) []string {
	if suffix == "" {
		suffix = DefaultRecipientSuffix
	}

	seen := make(map[string]struct{})
	recipients := make([]string, 0)

	for _, part := range strings.Split(raw, ",") {
		recipient := strings.TrimSpace(part)
		if recipient == "" {
			continue
		}

		if !strings.Contains(recipient, "@") {
			recipient += suffix
		}

		if _, ok := seen[recipient]; ok {
			continue
		}
		seen[recipient] = struct{}{}
		recipients = append(recipients, recipient)
	}

	return recipients
}
