// Package prompt collects interactive shell input for the client
// commands.
package prompt

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/nanolink/nanolink/internal/models"
)

// ForCredentials reads a username and password from the shell.
func ForCredentials() models.Credentials {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("Username: ")
	scanner.Scan()
	username := strings.TrimSpace(scanner.Text())

	fmt.Print("Password: ")
	scanner.Scan()
	password := scanner.Text()

	return models.Credentials{Username: username, Password: password}
}

// ForShorten reads the fields of a shorten request. Custom code and
// expiry date may be left empty; expiry is passed through verbatim for
// the server to parse (RFC 3339).
func ForShorten(userID string) models.ShortenRequest {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("Target URL: ")
	scanner.Scan()
	longURL := strings.TrimSpace(scanner.Text())

	fmt.Print("Custom alias (optional): ")
	scanner.Scan()
	customCode := strings.TrimSpace(scanner.Text())

	fmt.Print("Expiry date, RFC 3339 (optional): ")
	scanner.Scan()
	expiry := strings.TrimSpace(scanner.Text())

	return models.ShortenRequest{
		LongUrl:    longURL,
		CustomCode: customCode,
		ExpiryDate: expiry,
		UserID:     userID,
	}
}
