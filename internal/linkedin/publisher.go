package linkedin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/omjanipms/LinkedIn-Agent/internal/logger"
)

const (
	defaultAPIBase        = "https://api.linkedin.com"
	restliProtocolVersion = "2.0.0"

	feedShareRecipe      = "urn:li:digitalmediaRecipe:feedshare-image"
	uploadHTTPRequestKey = "com.linkedin.digitalmedia.uploading.MediaUploadHttpRequest"
)

// Publisher creates image posts through LinkedIn's asset-registration
// protocol: register the upload, PUT the bytes, then reference the asset
// from a UGC post.
type Publisher struct {
	cred       *Credential
	httpClient *http.Client
	apiBase    string
}

func NewPublisher(cred *Credential) *Publisher {
	return &Publisher{
		cred:       cred,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		apiBase:    defaultAPIBase,
	}
}

type registerUploadRequest struct {
	RegisterUploadRequest registerUploadBody `json:"registerUploadRequest"`
}

type registerUploadBody struct {
	Recipes              []string              `json:"recipes"`
	Owner                string                `json:"owner"`
	ServiceRelationships []serviceRelationship `json:"serviceRelationships"`
}

type serviceRelationship struct {
	RelationshipType string `json:"relationshipType"`
	Identifier       string `json:"identifier"`
}

type registerUploadResponse struct {
	Value struct {
		UploadMechanism map[string]struct {
			UploadURL string `json:"uploadUrl"`
		} `json:"uploadMechanism"`
		Asset string `json:"asset"`
	} `json:"value"`
}

type textValue struct {
	Text string `json:"text"`
}

type shareMedia struct {
	Status      string    `json:"status"`
	Description textValue `json:"description"`
	Media       string    `json:"media"`
	Title       textValue `json:"title"`
}

type shareContent struct {
	ShareCommentary    textValue    `json:"shareCommentary"`
	ShareMediaCategory string       `json:"shareMediaCategory"`
	Media              []shareMedia `json:"media"`
}

type ugcPost struct {
	Author          string                  `json:"author"`
	LifecycleState  string                  `json:"lifecycleState"`
	SpecificContent map[string]shareContent `json:"specificContent"`
	Visibility      map[string]string       `json:"visibility"`
}

// Publish downloads the image behind imageURL and creates a public post
// referencing it. It returns the platform's post reference on success.
// The scratch image file is removed on every exit path.
func (p *Publisher) Publish(ctx context.Context, topic, content, imageURL string) (string, error) {
	imageData, err := p.downloadImage(ctx, imageURL)
	if err != nil {
		return "", err
	}

	imagePath, cleanup, err := writeScratchImage(imageData)
	if err != nil {
		return "", NewPublishError(StageImageDownload, "failed to stage image locally").WithCause(err)
	}
	defer cleanup()

	uploadURL, asset, err := p.registerUpload(ctx)
	if err != nil {
		return "", err
	}

	if err := p.uploadImage(ctx, uploadURL, imagePath); err != nil {
		return "", err
	}

	postID, err := p.createPost(ctx, topic, content, asset)
	if err != nil {
		return "", err
	}

	logger.Info("post published", "topic", topic, "post_id", postID)
	return postID, nil
}

func (p *Publisher) downloadImage(ctx context.Context, imageURL string) ([]byte, error) {
	logger.Debug("downloading image", "url", imageURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, NewPublishError(StageImageDownload, "failed to build image request").WithCause(err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, NewPublishError(StageImageDownload, "image request failed").WithCause(err)
	}
	defer closeBody(resp)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewPublishError(StageImageDownload, "failed to read image bytes").WithCause(err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, NewPublishError(StageImageDownload, "image host returned an error").
			WithResponse(resp.StatusCode, truncateBody(body))
	}

	return body, nil
}

func (p *Publisher) registerUpload(ctx context.Context) (uploadURL, asset string, err error) {
	logger.Debug("registering image upload")

	reqBody := registerUploadRequest{
		RegisterUploadRequest: registerUploadBody{
			Recipes: []string{feedShareRecipe},
			Owner:   p.cred.AuthorURN(),
			ServiceRelationships: []serviceRelationship{
				{
					RelationshipType: "OWNER",
					Identifier:       "urn:li:userGeneratedContent",
				},
			},
		},
	}

	status, body, err := p.postJSON(ctx, p.apiBase+"/v2/assets?action=registerUpload", reqBody)
	if err != nil {
		return "", "", NewPublishError(StageRegisterUpload, "register upload request failed").WithCause(err)
	}
	if status != http.StatusOK {
		return "", "", NewPublishError(StageRegisterUpload, "platform rejected upload registration").
			WithResponse(status, truncateBody(body))
	}

	var regResp registerUploadResponse
	if err := json.Unmarshal(body, &regResp); err != nil {
		return "", "", NewPublishError(StageRegisterUpload, "unexpected registration response").WithCause(err)
	}

	uploadURL = regResp.Value.UploadMechanism[uploadHTTPRequestKey].UploadURL
	asset = regResp.Value.Asset
	if uploadURL == "" || asset == "" {
		return "", "", NewPublishError(StageRegisterUpload, "registration response missing upload URL or asset")
	}

	return uploadURL, asset, nil
}

func (p *Publisher) uploadImage(ctx context.Context, uploadURL, imagePath string) error {
	logger.Debug("uploading image bytes", "path", imagePath)

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return NewPublishError(StageImageUpload, "failed to read staged image").WithCause(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(data))
	if err != nil {
		return NewPublishError(StageImageUpload, "failed to build upload request").WithCause(err)
	}
	req.Header.Set("Authorization", "Bearer "+p.cred.AccessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return NewPublishError(StageImageUpload, "upload request failed").WithCause(err)
	}
	defer closeBody(resp)

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated {
		return NewPublishError(StageImageUpload, "platform rejected image bytes").
			WithResponse(resp.StatusCode, truncateBody(body))
	}

	return nil
}

func (p *Publisher) createPost(ctx context.Context, topic, content, asset string) (string, error) {
	logger.Debug("creating post", "topic", topic, "asset", asset)

	post := ugcPost{
		Author:         p.cred.AuthorURN(),
		LifecycleState: "PUBLISHED",
		SpecificContent: map[string]shareContent{
			"com.linkedin.ugc.ShareContent": {
				ShareCommentary: textValue{
					Text: fmt.Sprintf("%s\n\n%s", topic, cleanShareText(content)),
				},
				ShareMediaCategory: "IMAGE",
				Media: []shareMedia{
					{
						Status:      "READY",
						Description: textValue{Text: topic},
						Media:       asset,
						Title:       textValue{Text: topic},
					},
				},
			},
		},
		Visibility: map[string]string{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}

	status, body, postID, err := p.postJSONWithID(ctx, p.apiBase+"/v2/ugcPosts", post)
	if err != nil {
		return "", NewPublishError(StageCreatePost, "post request failed").WithCause(err)
	}
	if status != http.StatusCreated {
		return "", NewPublishError(StageCreatePost, "platform rejected the post").
			WithResponse(status, truncateBody(body))
	}

	return postID, nil
}

func (p *Publisher) postJSON(ctx context.Context, url string, payload any) (int, []byte, error) {
	status, body, _, err := p.postJSONWithID(ctx, url, payload)
	return status, body, err
}

func (p *Publisher) postJSONWithID(ctx context.Context, url string, payload any) (int, []byte, string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return 0, nil, "", err
	}
	req.Header.Set("Authorization", "Bearer "+p.cred.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", restliProtocolVersion)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return 0, nil, "", err
	}
	defer closeBody(resp)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, "", err
	}

	return resp.StatusCode, body, resp.Header.Get("x-restli-id"), nil
}

// cleanShareText strips the markup LinkedIn renders literally. Generated
// copy tends to arrive with markdown bold markers.
func cleanShareText(content string) string {
	return strings.TrimSpace(strings.ReplaceAll(content, "*", ""))
}

func writeScratchImage(data []byte) (string, func(), error) {
	f, err := os.CreateTemp("", "linkedin-post-*.jpg")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()

	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warn("failed to remove scratch image", "path", path, "error", err)
		}
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, err
	}

	return path, cleanup, nil
}

func closeBody(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		logger.Warn("failed to close response body", "error", err)
	}
}

func truncateBody(body []byte) string {
	const max = 512
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
