package email

import (
	"errors"
	"fmt"
	"net/smtp"
	"slices"
)

var (
	// ErrNoTLS is returned when the relay session was not upgraded to TLS
	// before authentication.
	ErrNoTLS = errors.New("smtp relay did not negotiate TLS")
	// ErrNoAuthMechanism is returned when the relay offers neither PLAIN nor LOGIN.
	ErrNoAuthMechanism = errors.New("smtp relay offers no supported AUTH mechanism")
)

// relayAuth authenticates with PLAIN, or LOGIN when that is all the relay
// offers. It refuses to run on an unencrypted session, including localhost.
// It holds no per-session state and is shared by concurrent deliveries.
type relayAuth struct {
	username string
	password string
	host     string
}

func newRelayAuth(username, password, host string) smtp.Auth {
	return &relayAuth{username: username, password: password, host: host}
}

func (a *relayAuth) Start(server *smtp.ServerInfo) (string, []byte, error) {
	if !server.TLS {
		return "", nil, ErrNoTLS
	}
	if server.Name != a.host {
		return "", nil, fmt.Errorf("smtp: wrong host name %q", server.Name)
	}

	switch {
	case slices.Contains(server.Auth, "PLAIN"):
		return "PLAIN", []byte("\x00" + a.username + "\x00" + a.password), nil
	case slices.Contains(server.Auth, "LOGIN"):
		return "LOGIN", nil, nil
	default:
		return "", nil, ErrNoAuthMechanism
	}
}

func (a *relayAuth) Next(fromServer []byte, more bool) ([]byte, error) {
	if !more {
		return nil, nil
	}

	switch string(fromServer) {
	case "Username:":
		return []byte(a.username), nil
	case "Password:":
		return []byte(a.password), nil
	default:
		return nil, fmt.Errorf("smtp: unexpected server challenge %q", fromServer)
	}
}
