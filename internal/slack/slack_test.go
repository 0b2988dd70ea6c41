package slack

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shubh-37/startupai/internal/canvas"
	"github.com/shubh-37/startupai/internal/gate"
	"github.com/shubh-37/startupai/internal/memstore"
	"github.com/shubh-37/startupai/internal/models"
)

const (
	testSecret  = "8f742231b10e8888abcd99yyyzzz85a5"
	testChannel = "C0REVIEW"
)

// fakeSlack records Web API calls made by the client.
type fakeSlack struct {
	mu    sync.Mutex
	posts []url.Values
	srv   *httptest.Server
}

func newFakeSlack(t *testing.T) *fakeSlack {
	t.Helper()
	f := &fakeSlack{}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		w.Header().Set("Content-Type", "application/json")
		switch strings.TrimPrefix(r.URL.Path, "/") {
		case "auth.test":
			_, _ = io.WriteString(w, `{"ok":true,"user_id":"UBOT","user":"startupai","team":"Acme"}`)
		case "chat.postMessage":
			f.mu.Lock()
			f.posts = append(f.posts, r.PostForm)
			n := len(f.posts)
			f.mu.Unlock()
			fmt.Fprintf(w, `{"ok":true,"channel":%q,"ts":"1700000000.%06d"}`, r.PostForm.Get("channel"), n)
		default:
			_, _ = io.WriteString(w, `{"ok":true}`)
		}
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeSlack) client(t *testing.T) *Client {
	t.Helper()
	c, err := NewClient(context.Background(), "xoxb-test", nil, slack.OptionAPIURL(f.srv.URL+"/"))
	require.NoError(t, err)
	return c
}

func (f *fakeSlack) last() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.posts) == 0 {
		return url.Values{}
	}
	return f.posts[len(f.posts)-1]
}

func (f *fakeSlack) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.posts)
}

func seedCanvas(t *testing.T, svc *canvas.Service, data models.CanvasData) *models.Canvas {
	t.Helper()
	c := models.NewCanvas("client-1", models.CanvasValueProposition, "Clinic scheduling VPC")
	c.Data = data
	svc.Score(c)
	require.NoError(t, svc.Save(context.Background(), c))
	return c
}

func TestNewClient_AuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"ok":false,"error":"invalid_auth"}`)
	}))
	defer srv.Close()

	_, err := NewClient(context.Background(), "bad", nil, slack.OptionAPIURL(srv.URL+"/"))
	assert.ErrorContains(t, err, "invalid_auth")
}

func TestNotifier_CanvasReadyTracksMessage(t *testing.T) {
	fake := newFakeSlack(t)
	client := fake.client(t)
	svc := canvas.NewService(memstore.NewCanvasStore(), nil)
	approvals := NewApprovalHandler(client, svc, nil)
	notifier := NewNotifier(client, testChannel, approvals, canvas.QualityThreshold, nil)

	c := seedCanvas(t, svc, models.CanvasData{models.SectionCustomerJobs: {"Book appointments"}})
	require.NoError(t, notifier.CanvasReady(context.Background(), c))

	post := fake.last()
	assert.Equal(t, testChannel, post.Get("channel"))
	assert.Equal(t, "Canvas ready for review: Clinic scheduling VPC", post.Get("text"))
	assert.Contains(t, post.Get("blocks"), "Quality below threshold")
	assert.Contains(t, post.Get("blocks"), c.ID)

	id, ok := approvals.CanvasFor("1700000000.000001")
	require.True(t, ok)
	assert.Equal(t, c.ID, id)
}

func TestCanvasBlocks(t *testing.T) {
	c := models.NewCanvas("client-1", models.CanvasValueProposition, "Full VPC")
	report := canvas.QualityReport{Score: 1, Filled: 6, Total: 6, MissingSections: []string{}}

	blocks := CanvasBlocks(c, report)
	require.Len(t, blocks, 3)
	assert.Equal(t, slack.MBTHeader, blocks[0].BlockType())
	assert.Equal(t, slack.MBTContext, blocks[2].BlockType())

	report.BelowThreshold = true
	report.MissingSections = []string{models.SectionProducts}
	blocks = CanvasBlocks(c, report)
	require.Len(t, blocks, 4)
	warning := blocks[2].(*slack.SectionBlock)
	assert.Contains(t, warning.Text.Text, "Products & Services")
}

func TestApprovalHandler_Reactions(t *testing.T) {
	fake := newFakeSlack(t)
	client := fake.client(t)
	svc := canvas.NewService(memstore.NewCanvasStore(), nil)
	approvals := NewApprovalHandler(client, svc, nil)
	ctx := context.Background()

	published := seedCanvas(t, svc, models.CanvasData{})
	approvals.Track("111.1", published.ID)

	reaction := func(name, ts string) *slackevents.ReactionAddedEvent {
		return &slackevents.ReactionAddedEvent{
			User:     "U1",
			Reaction: name,
			Item:     slackevents.Item{Type: "message", Channel: testChannel, Timestamp: ts},
		}
	}

	require.NoError(t, approvals.HandleReaction(ctx, reaction("thumbsup", "111.1")))
	assert.Equal(t, 0, fake.count())

	require.NoError(t, approvals.HandleReaction(ctx, reaction("white_check_mark", "111.1")))
	got, err := svc.Get(ctx, published.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, got.Status)
	assert.Contains(t, fake.last().Get("text"), "published by <@U1>")
	_, tracked := approvals.CanvasFor("111.1")
	assert.False(t, tracked)

	require.NoError(t, approvals.HandleReaction(ctx, reaction("white_check_mark", "unknown.ts")))

	c2 := models.NewCanvas("client-2", models.CanvasBusinessModel, "BMC")
	require.NoError(t, svc.Save(ctx, c2))
	approvals.Track("222.2", c2.ID)
	require.NoError(t, approvals.HandleReaction(ctx, reaction("x", "222.2")))
	got, err = svc.Get(ctx, c2.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusArchived, got.Status)

	approvals.Track("333.3", "missing-canvas")
	err = approvals.HandleReaction(ctx, reaction("x", "333.3"))
	assert.ErrorIs(t, err, models.ErrCanvasNotFound)
	assert.Contains(t, fake.last().Get("text"), "Could not update canvas")
}

func TestMessageHandler_Commands(t *testing.T) {
	fake := newFakeSlack(t)
	client := fake.client(t)
	svc := canvas.NewService(memstore.NewCanvasStore(), nil)
	evidence := memstore.NewEvidenceStore()
	require.NoError(t, evidence.Create(context.Background(), models.NewEvidence("proj-1", "interview", models.StrengthStrong, 0.9)))
	gates := gate.NewService(evidence, nil)
	handler := NewMessageHandler(client, NewCommandHandler(client, svc, gates, nil, nil), nil)
	ctx := context.Background()

	c := seedCanvas(t, svc, models.CanvasData{models.SectionCustomerJobs: {"Book appointments"}})

	mention := func(text string) string {
		require.NoError(t, handler.HandleAppMention(ctx, &slackevents.AppMentionEvent{Channel: testChannel, Text: text}))
		return fake.last().Get("text")
	}

	assert.Contains(t, mention("<@UBOT> help"), "*Commands:*")
	assert.Contains(t, mention("<@UBOT>"), "*Commands:*")

	status := mention("<@UBOT> status " + c.ID)
	assert.Contains(t, status, "Clinic scheduling VPC")
	assert.Contains(t, status, "Status: *draft*")
	assert.Contains(t, status, "1/6 sections filled")
	assert.Contains(t, status, "Quality below threshold")

	assert.Contains(t, mention("<@UBOT> status nope"), "Canvas not found")
	assert.Contains(t, mention("<@UBOT> status"), "Please provide a canvas id")

	gateReply := mention("<@UBOT> gate proj-1 desirability")
	assert.Contains(t, gateReply, "*DESIRABILITY gate* for `proj-1`: *Failed*")
	assert.Contains(t, gateReply, "Insufficient experiments: 0/5")
	assert.Contains(t, mention("<@UBOT> gate proj-1 launch"), "Stage must be one of")

	assert.Contains(t, mention("<@UBOT> sync linear proj-1"), "Linear is not configured")
	assert.Contains(t, mention("<@UBOT> dance"), "didn't recognise")
}

type countingImporter struct {
	projectID string
	days      int
}

func (c *countingImporter) ImportCompleted(ctx context.Context, projectID string, days int) (int, error) {
	c.projectID, c.days = projectID, days
	return 3, nil
}

func TestCommandHandler_LinearSync(t *testing.T) {
	fake := newFakeSlack(t)
	client := fake.client(t)
	importer := &countingImporter{}
	handler := NewMessageHandler(client, NewCommandHandler(client, nil, nil, importer, nil), nil)

	err := handler.HandleAppMention(context.Background(), &slackevents.AppMentionEvent{Channel: testChannel, Text: "<@UBOT> sync linear proj-9 14"})
	require.NoError(t, err)
	assert.Equal(t, "proj-9", importer.projectID)
	assert.Equal(t, 14, importer.days)
	assert.Contains(t, fake.last().Get("text"), "Imported 3 completed issue(s)")
}

func signedRequest(t *testing.T, body string, secret string) *http.Request {
	t.Helper()
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte("v0:" + ts + ":" + body))

	req := httptest.NewRequest(http.MethodPost, "/slack/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Slack-Request-Timestamp", ts)
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(mac.Sum(nil)))
	return req
}

func TestServer_URLVerificationAndSignature(t *testing.T) {
	server := NewServer(nil, nil, testSecret, nil)
	body := `{"token":"tok","challenge":"3eZbrw1aBm2rZgRNFdxV2595E9CY3gmdALWMmHkvFXO7tYXAYM8P","type":"url_verification"}`

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, signedRequest(t, body, testSecret))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "3eZbrw1aBm2rZgRNFdxV2595E9CY3gmdALWMmHkvFXO7tYXAYM8P", rec.Body.String())

	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, signedRequest(t, body, "wrong-secret"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/slack/events", strings.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_ReactionEventPublishesCanvas(t *testing.T) {
	fake := newFakeSlack(t)
	client := fake.client(t)
	svc := canvas.NewService(memstore.NewCanvasStore(), nil)
	approvals := NewApprovalHandler(client, svc, nil)
	messages := NewMessageHandler(client, NewCommandHandler(client, svc, nil, nil, nil), nil)
	server := NewServer(messages, approvals, testSecret, nil)

	c := seedCanvas(t, svc, models.CanvasData{})
	approvals.Track("1700000000.000042", c.ID)

	body := `{"token":"tok","team_id":"T1","type":"event_callback","event_id":"Ev1","event_time":1700000000,` +
		`"event":{"type":"reaction_added","user":"U1","reaction":"white_check_mark",` +
		`"item":{"type":"message","channel":"C0REVIEW","ts":"1700000000.000042"},"event_ts":"1700000001.000100"}}`

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, signedRequest(t, body, testSecret))
	assert.Equal(t, http.StatusOK, rec.Code)

	got, err := svc.Get(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, got.Status)
}
