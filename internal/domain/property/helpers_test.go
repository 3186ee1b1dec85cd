package property

import "github.com/keystone/backend/internal/domain/shared"

func codeOf(err error) string {
	if de, ok := shared.AsDomainError(err); ok {
		return de.Code
	}
	return ""
}
