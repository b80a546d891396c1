// Package share builds the payloads behind the share buttons.
package share

import (
	"fmt"
	"strings"

	"zelapb/api/internal/store"
)

// Payload is what a client hands to the platform share sheet. Clipboard is
// the text to copy when no share sheet exists.
type Payload struct {
	Title     string `json:"title"`
	Text      string `json:"text"`
	URL       string `json:"url"`
	Clipboard string `json:"clipboard"`
}

func Compose(title, text, url string) Payload {
	return Payload{Title: title, Text: text, URL: url, Clipboard: text + "\n" + url}
}

func Report(appName string, r store.Report, baseURL string) Payload {
	text := fmt.Sprintf("Acabei de registrar uma denúncia no %s: %s em %s. Vamos cobrar solução!",
		appName, r.Description, r.Location)
	return Compose(appName+" - Denúncia", text, link(baseURL, "/reports/"+r.ID))
}

func Broadcast(appName string, b store.BroadcastMessage, baseURL string) Payload {
	text := fmt.Sprintf("%s: %s - Via App %s", b.Title, b.Message, appName)
	return Compose(b.Title, text, link(baseURL, "/broadcasts/"+b.ID))
}

func Stats(appName string, total, efficiency int, baseURL string) Payload {
	text := fmt.Sprintf("Boletim Diário %s: Hoje registramos %d ocorrências com eficiência de resolução de %d%%. Uma gestão transparente!",
		appName, total, efficiency)
	return Compose("Boletim "+appName, text, link(baseURL, "/"))
}

func link(baseURL, path string) string {
	return strings.TrimRight(baseURL, "/") + path
}
