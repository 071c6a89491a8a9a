package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"shop-chatbot-be/internal/dto"
	"shop-chatbot-be/pkg/assistant/response"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

type client struct {
	baseURL   string
	token     string
	sessionID string
	language  string
	http      *http.Client
}

// Request helper
func (c *client) send(method, path string, body interface{}, out interface{}) (int, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, err
	}
	if resp.StatusCode >= 400 {
		return resp.StatusCode, fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}
	if out != nil {
		return resp.StatusCode, json.Unmarshal(raw, out)
	}
	return resp.StatusCode, nil
}

func (c *client) chat(message string) {
	var reply response.Reply
	_, err := c.send(http.MethodPost, "/chat", dto.ChatRequest{
		Message:   message,
		SessionId: c.sessionID,
		Language:  c.language,
	}, &reply)
	if err != nil {
		color.Red("Failed: %v", err)
		return
	}

	color.Green("bot> %s", reply.Text)
	for i, p := range reply.Products {
		line := fmt.Sprintf("  %d. %s", i+1, p.Title)
		if p.Price != "" {
			line += fmt.Sprintf(" (%s %s)", p.Price, strings.ToUpper(p.CurrencyCode))
		}
		fmt.Println(line)
	}
	if len(reply.QuickReplies) > 0 {
		labels := make([]string, 0, len(reply.QuickReplies))
		for _, q := range reply.QuickReplies {
			labels = append(labels, q.Label)
		}
		color.Cyan("  [%s]", strings.Join(labels, "] ["))
	}
	if reply.Action != nil {
		color.Magenta("  action: %s", reply.Action.Type)
	}
	if intent, ok := reply.Metadata["intent"]; ok {
		color.HiBlack("  intent=%v", intent)
	}
}

func (c *client) suggestions() {
	var res dto.SuggestionsResponse
	if _, err := c.send(http.MethodPost, "/chat/suggestions", dto.SuggestionsRequest{}, &res); err != nil {
		color.Red("Failed: %v", err)
		return
	}
	var walk func(nodes []dto.ContextNodeDTO, depth int)
	walk = func(nodes []dto.ContextNodeDTO, depth int) {
		for _, n := range nodes {
			fmt.Printf("%s- %s (%s)\n", strings.Repeat("  ", depth), n.Label, n.Id)
			walk(n.Children, depth+1)
		}
	}
	walk(res.Suggestions, 0)
}

func (c *client) history() {
	var res dto.ChatHistoryResponse
	if _, err := c.send(http.MethodGet, "/chat/history/"+c.sessionID, nil, &res); err != nil {
		color.Red("Failed: %v", err)
		return
	}
	if len(res.Messages) == 0 {
		color.Yellow("(no messages)")
	}
	for _, m := range res.Messages {
		fmt.Printf("%-9s %s\n", m.Role+">", m.Content)
	}
}

func (c *client) clear() {
	var res dto.ClearSessionResponse
	if _, err := c.send(http.MethodPost, "/chat/session/clear/"+c.sessionID, nil, &res); err != nil {
		color.Red("Failed: %v", err)
		return
	}
	color.Yellow("%s", res.Message)
}

func (c *client) escalate(reason string) {
	var res dto.EscalateResponse
	if _, err := c.send(http.MethodPost, "/chat/escalate", dto.EscalateRequest{SessionId: c.sessionID, Reason: reason}, &res); err != nil {
		color.Red("Failed: %v", err)
		return
	}
	color.Yellow("Session %s: %s", res.SessionId, res.Status)
}

func printHelp() {
	color.Cyan("Commands: /suggest  /history  /clear  /escalate [reason]  /session  /quit")
}

func main() {
	baseURL := flag.String("url", "http://localhost:8000/api", "API base URL")
	token := flag.String("token", os.Getenv("CHAT_TOKEN"), "JWT for staff or manager roles")
	session := flag.String("session", "", "session id to resume (a new one is generated when empty)")
	language := flag.String("lang", "vi", "reply language (vi or en)")
	flag.Parse()

	c := &client{
		baseURL:   strings.TrimRight(*baseURL, "/"),
		token:     *token,
		sessionID: *session,
		language:  *language,
		http:      &http.Client{Timeout: 90 * time.Second},
	}
	if c.sessionID == "" {
		c.sessionID = "cli_" + uuid.NewString()
	}

	color.Cyan("🛍  Shop assistant (session %s)", c.sessionID)
	printHelp()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(color.BlueString("you> "))
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		cmd, arg, _ := strings.Cut(line, " ")
		switch cmd {
		case "/quit", "/exit":
			return
		case "/help":
			printHelp()
		case "/suggest":
			c.suggestions()
		case "/history":
			c.history()
		case "/clear":
			c.clear()
		case "/escalate":
			c.escalate(strings.TrimSpace(arg))
		case "/session":
			fmt.Println(c.sessionID)
		default:
			c.chat(line)
		}
	}
}
