package messaging

import (
	"fmt"

	"github.com/glimte/warren-go/ident"
)

// RoutingKey assembles a routing key from mixed-kind fragments:
//
//	key, _ := messaging.RoutingKey("order", ".", "created")
func RoutingKey(parts ...any) (string, error) {
	key, err := ident.JoinText(parts, "")
	if err != nil {
		return "", fmt.Errorf("messaging: build routing key: %w", err)
	}
	return key, nil
}

// ExchangeName assembles an exchange name from mixed-kind fragments.
func ExchangeName(parts ...any) (string, error) {
	name, err := ident.JoinText(parts, "")
	if err != nil {
		return "", fmt.Errorf("messaging: build exchange name: %w", err)
	}
	return name, nil
}
