// SPDX-License-Identifier: GPL-3.0-or-later
package gmail

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/CrawX/go-mail-forwarder/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
)

// NewHttpClient returns a client authorized for read access to the mailbox.
// The token is read from tokenPath; when there is none the user is asked to
// authorize the application on the console and the token is stored.
func NewHttpClient(ctx context.Context, credentialsPath, tokenPath string, in io.Reader, out io.Writer) (*http.Client, error) {
	credentials, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("could not read client credentials: %w", err)
	}

	config, err := google.ConfigFromJSON(credentials, gmail.GmailReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("could not parse client credentials: %w", err)
	}

	token, err := tokenFromFile(tokenPath)
	if err != nil {
		log.Logger(log.LOG_GMAIL).WithField("error", err).Info("No stored token, starting authorization")
		token, err = tokenFromConsole(ctx, config, in, out)
		if err != nil {
			return nil, err
		}
		if err := saveToken(tokenPath, token); err != nil {
			return nil, err
		}
	}

	return config.Client(ctx, token), nil
}

func tokenFromConsole(ctx context.Context, config *oauth2.Config, in io.Reader, out io.Writer) (*oauth2.Token, error) {
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Fprintf(out, "Open the following link in your browser and paste the authorization code:\n%v\n", authURL)

	code, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && len(code) == 0 {
		return nil, fmt.Errorf("could not read authorization code: %w", err)
	}

	token, err := config.Exchange(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, fmt.Errorf("could not exchange authorization code: %w", err)
	}
	return token, nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	token := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(token)
	if err != nil {
		return nil, fmt.Errorf("could not decode token: %w", err)
	}
	return token, nil
}

func saveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("could not store token: %w", err)
	}
	defer f.Close()

	err = json.NewEncoder(f).Encode(token)
	if err != nil {
		return fmt.Errorf("could not encode token: %w", err)
	}
	return nil
}
