package linkedin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testPublisher(apiBase string) *Publisher {
	return &Publisher{
		cred: &Credential{
			AccessToken: "token-123",
			ExpiresAt:   time.Now().Add(time.Hour).Unix(),
			MemberID:    "member-abc",
		},
		httpClient: &http.Client{Timeout: 5 * time.Second},
		apiBase:    apiBase,
	}
}

// fakePlatform answers the full publish protocol: register, upload, post.
type fakePlatform struct {
	srv *httptest.Server

	registerCalls int
	uploadCalls   int
	postCalls     int

	registerStatus int
	uploadStatus   int
	postStatus     int

	lastPostBody []byte
}

func newFakePlatform(t *testing.T) *fakePlatform {
	t.Helper()

	p := &fakePlatform{
		registerStatus: http.StatusOK,
		uploadStatus:   http.StatusCreated,
		postStatus:     http.StatusCreated,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v2/assets", func(w http.ResponseWriter, r *http.Request) {
		p.registerCalls++
		if got := r.Header.Get("Authorization"); got != "Bearer token-123" {
			t.Errorf("register: unexpected authorization header %q", got)
		}
		if p.registerStatus != http.StatusOK {
			w.WriteHeader(p.registerStatus)
			fmt.Fprint(w, `{"message":"nope"}`)
			return
		}
		fmt.Fprintf(w, `{"value":{"uploadMechanism":{%q:{"uploadUrl":%q}},"asset":"urn:li:digitalmediaAsset:img-1"}}`,
			uploadHTTPRequestKey, p.srv.URL+"/upload")
	})
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		p.uploadCalls++
		if r.Method != http.MethodPut {
			t.Errorf("upload: expected PUT, got %s", r.Method)
		}
		w.WriteHeader(p.uploadStatus)
	})
	mux.HandleFunc("/v2/ugcPosts", func(w http.ResponseWriter, r *http.Request) {
		p.postCalls++
		p.lastPostBody, _ = io.ReadAll(r.Body)
		if got := r.Header.Get("X-Restli-Protocol-Version"); got != restliProtocolVersion {
			t.Errorf("post: unexpected protocol version %q", got)
		}
		if p.postStatus == http.StatusCreated {
			w.Header().Set("x-restli-id", "urn:li:share:999")
		}
		w.WriteHeader(p.postStatus)
	})

	p.srv = httptest.NewServer(mux)
	t.Cleanup(p.srv.Close)
	return p
}

func newImageServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		if status == http.StatusOK {
			w.Write([]byte("jpeg-bytes"))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPublishHappyPath(t *testing.T) {
	platform := newFakePlatform(t)
	images := newImageServer(t, http.StatusOK)
	pub := testPublisher(platform.srv.URL)

	postID, err := pub.Publish(context.Background(), "AI", "Some **bold** copy", images.URL)
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if postID != "urn:li:share:999" {
		t.Errorf("expected the restli id, got %q", postID)
	}
	if platform.registerCalls != 1 || platform.uploadCalls != 1 || platform.postCalls != 1 {
		t.Errorf("unexpected call counts: register=%d upload=%d post=%d",
			platform.registerCalls, platform.uploadCalls, platform.postCalls)
	}

	var post ugcPost
	if err := json.Unmarshal(platform.lastPostBody, &post); err != nil {
		t.Fatalf("failed to decode post body: %v", err)
	}
	if post.Author != "urn:li:person:member-abc" {
		t.Errorf("unexpected author %q", post.Author)
	}
	if post.LifecycleState != "PUBLISHED" {
		t.Errorf("unexpected lifecycle state %q", post.LifecycleState)
	}

	share := post.SpecificContent["com.linkedin.ugc.ShareContent"]
	text := share.ShareCommentary.Text
	if !strings.HasPrefix(text, "AI\n\n") {
		t.Errorf("commentary should lead with the topic, got %q", text)
	}
	if strings.Contains(text, "*") {
		t.Errorf("markdown markers must be stripped, got %q", text)
	}
	if len(share.Media) != 1 || share.Media[0].Media != "urn:li:digitalmediaAsset:img-1" {
		t.Errorf("unexpected media reference: %+v", share.Media)
	}
	if post.Visibility["com.linkedin.ugc.MemberNetworkVisibility"] != "PUBLIC" {
		t.Errorf("unexpected visibility: %v", post.Visibility)
	}
}

func TestPublishImageDownloadFailure(t *testing.T) {
	platform := newFakePlatform(t)
	images := newImageServer(t, http.StatusNotFound)
	pub := testPublisher(platform.srv.URL)

	_, err := pub.Publish(context.Background(), "AI", "copy", images.URL)
	if err == nil {
		t.Fatal("expected an error for a missing image")
	}

	var pe *PublishError
	if !errors.As(err, &pe) {
		t.Fatalf("expected a *PublishError, got %T", err)
	}
	if pe.Stage != StageImageDownload {
		t.Errorf("expected stage %s, got %s", StageImageDownload, pe.Stage)
	}
	if pe.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", pe.StatusCode)
	}
	if platform.registerCalls != 0 {
		t.Errorf("registration must not run after a download failure")
	}
}

func TestPublishRegisterUploadFailure(t *testing.T) {
	platform := newFakePlatform(t)
	platform.registerStatus = http.StatusForbidden
	images := newImageServer(t, http.StatusOK)
	pub := testPublisher(platform.srv.URL)

	_, err := pub.Publish(context.Background(), "AI", "copy", images.URL)

	var pe *PublishError
	if !errors.As(err, &pe) {
		t.Fatalf("expected a *PublishError, got %v", err)
	}
	if pe.Stage != StageRegisterUpload {
		t.Errorf("expected stage %s, got %s", StageRegisterUpload, pe.Stage)
	}
	if platform.uploadCalls != 0 || platform.postCalls != 0 {
		t.Errorf("upload and post must not run after a registration failure")
	}
}

func TestPublishUploadFailure(t *testing.T) {
	platform := newFakePlatform(t)
	platform.uploadStatus = http.StatusInternalServerError
	images := newImageServer(t, http.StatusOK)
	pub := testPublisher(platform.srv.URL)

	_, err := pub.Publish(context.Background(), "AI", "copy", images.URL)

	var pe *PublishError
	if !errors.As(err, &pe) {
		t.Fatalf("expected a *PublishError, got %v", err)
	}
	if pe.Stage != StageImageUpload {
		t.Errorf("expected stage %s, got %s", StageImageUpload, pe.Stage)
	}
	if platform.postCalls != 0 {
		t.Errorf("the post must not be created after an upload failure")
	}
}

func TestPublishCreatePostFailure(t *testing.T) {
	platform := newFakePlatform(t)
	platform.postStatus = http.StatusUnprocessableEntity
	images := newImageServer(t, http.StatusOK)
	pub := testPublisher(platform.srv.URL)

	_, err := pub.Publish(context.Background(), "AI", "copy", images.URL)

	var pe *PublishError
	if !errors.As(err, &pe) {
		t.Fatalf("expected a *PublishError, got %v", err)
	}
	if pe.Stage != StageCreatePost {
		t.Errorf("expected stage %s, got %s", StageCreatePost, pe.Stage)
	}
}

func TestCleanShareText(t *testing.T) {
	cases := map[string]string{
		"**Bold** and *italic*": "Bold and italic",
		"  plain text  ":        "plain text",
		"***":                   "",
	}
	for in, want := range cases {
		if got := cleanShareText(in); got != want {
			t.Errorf("cleanShareText(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTruncateBody(t *testing.T) {
	short := "small response"
	if got := truncateBody([]byte(short)); got != short {
		t.Errorf("short bodies must pass through, got %q", got)
	}

	long := strings.Repeat("x", 600)
	got := truncateBody([]byte(long))
	if len(got) != 512+len("...") {
		t.Errorf("expected a truncated body, got length %d", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated body should end with an ellipsis")
	}
}
