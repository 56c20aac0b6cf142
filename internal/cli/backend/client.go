package backend

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/yndnr/brainscan-go/internal/cli/connection"
	"github.com/yndnr/brainscan-go/internal/core/domain"
)

// ImageField is the multipart field the backend reads the scan from.
const ImageField = "image"

// Download formats accepted by /history/download.
var DownloadFormats = []string{"csv", "pdf", "json"}

// Client calls the Brain Scan API.
type Client struct {
	http *connection.HTTPClient
}

// New creates a Client over an HTTP transport.
func New(http *connection.HTTPClient) *Client {
	return &Client{http: http}
}

// MessageResponse is the {message} envelope of mutating endpoints.
type MessageResponse struct {
	Message string `json:"message" yaml:"message"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type logsResponse struct {
	Logs []domain.Prediction `json:"logs"`
}

type doctorsResponse struct {
	Doctors []domain.Doctor `json:"doctors"`
}

// Login exchanges doctor credentials for a session credential.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (string, error) {
	return c.login(ctx, "/login", creds)
}

// AdminLogin exchanges admin credentials (with admin token) for a credential.
func (c *Client) AdminLogin(ctx context.Context, creds domain.Credentials) (string, error) {
	return c.login(ctx, "/login-admin", creds)
}

func (c *Client) login(ctx context.Context, path string, creds domain.Credentials) (string, error) {
	var out tokenResponse
	if err := c.postJSON(ctx, path, creds, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", domain.ErrInvalidCredential.WithDetails("backend returned no token")
	}
	return out.Token, nil
}

// Register creates a doctor account. The backend sends a verification email.
func (c *Client) Register(ctx context.Context, reg domain.Registration) (MessageResponse, error) {
	var out MessageResponse
	err := c.postJSON(ctx, "/register", reg, &out)
	return out, err
}

// AdminRegister creates an admin account.
func (c *Client) AdminRegister(ctx context.Context, reg domain.Registration) (MessageResponse, error) {
	var out MessageResponse
	err := c.postJSON(ctx, "/admin-register", reg, &out)
	return out, err
}

// VerifyEmail confirms an email address with the emailed token.
func (c *Client) VerifyEmail(ctx context.Context, token string) (MessageResponse, error) {
	var out MessageResponse
	err := c.get(ctx, "/verify-email/"+url.PathEscape(token), &out)
	return out, err
}

// Status probes the backend.
func (c *Client) Status(ctx context.Context) (map[string]any, error) {
	out := map[string]any{}
	err := c.get(ctx, "/status", &out)
	return out, err
}

// Profile returns the signed-in account.
func (c *Client) Profile(ctx context.Context) (domain.Profile, error) {
	var out domain.Profile
	err := c.get(ctx, "/profile", &out)
	return out, err
}

// UpdateProfile changes the display name and optionally the password.
func (c *Client) UpdateProfile(ctx context.Context, upd domain.ProfileUpdate) (MessageResponse, error) {
	var out MessageResponse
	resp, err := c.http.PutJSON(ctx, "/profile/update", upd.Payload())
	if err != nil {
		return out, err
	}
	err = c.http.Decode(resp, &out)
	return out, err
}

// Predict submits a scan for inference.
func (c *Client) Predict(ctx context.Context, filename string, image io.Reader) (domain.PredictionOutcome, error) {
	var out domain.PredictionOutcome
	resp, err := c.http.Upload(ctx, "/predict", ImageField, filename, image)
	if err != nil {
		return out, err
	}
	err = c.http.Decode(resp, &out)
	if out.Filename == "" {
		out.Filename = filename
	}
	return out, err
}

// History lists the signed-in doctor's predictions.
func (c *Client) History(ctx context.Context) ([]domain.Prediction, error) {
	var out logsResponse
	if err := c.get(ctx, "/history", &out); err != nil {
		return nil, err
	}
	return out.Logs, nil
}

// DeletePrediction removes one of the doctor's predictions.
func (c *Client) DeletePrediction(ctx context.Context, id string) error {
	return c.delete(ctx, "/history/"+url.PathEscape(id), nil)
}

// ClearHistory removes all of the doctor's predictions.
func (c *Client) ClearHistory(ctx context.Context) error {
	return c.delete(ctx, "/history", nil)
}

// DownloadHistory streams the doctor's logs in format to w.
func (c *Client) DownloadHistory(ctx context.Context, format string, w io.Writer, progress func(written, total int64)) (int64, error) {
	if !validDownloadFormat(format) {
		return 0, domain.ErrUnsupportedFormat.WithDetails(format)
	}
	return c.http.Download(ctx, "/history/download?format="+url.QueryEscape(format), w, progress)
}

// DownloadHeatmap streams a heatmap image to w.
func (c *Client) DownloadHeatmap(ctx context.Context, rel string, w io.Writer, progress func(written, total int64)) (int64, error) {
	return c.http.Download(ctx, "/static/"+rel, w, progress)
}

// Doctors lists every doctor account.
func (c *Client) Doctors(ctx context.Context) ([]domain.Doctor, error) {
	var out doctorsResponse
	if err := c.get(ctx, "/admin/users", &out); err != nil {
		return nil, err
	}
	return out.Doctors, nil
}

// DeleteDoctor removes a doctor account by email.
func (c *Client) DeleteDoctor(ctx context.Context, email string) error {
	return c.delete(ctx, "/admin/delete-user", map[string]string{"email": email})
}

// AllPredictions lists every prediction across doctors.
func (c *Client) AllPredictions(ctx context.Context) ([]domain.Prediction, error) {
	var out logsResponse
	if err := c.get(ctx, "/admin/logs", &out); err != nil {
		return nil, err
	}
	return out.Logs, nil
}

// DownloadFilename is the name the doctor's download is saved under.
func DownloadFilename(format string) string {
	return fmt.Sprintf("prediction_logs.%s", format)
}

func (c *Client) get(ctx context.Context, path string, target any) error {
	resp, err := c.http.Get(ctx, path)
	if err != nil {
		return err
	}
	return c.http.Decode(resp, target)
}

func (c *Client) postJSON(ctx context.Context, path string, body, target any) error {
	resp, err := c.http.PostJSON(ctx, path, body)
	if err != nil {
		return err
	}
	return c.http.Decode(resp, target)
}

func (c *Client) delete(ctx context.Context, path string, body any) error {
	resp, err := c.http.Delete(ctx, path, body)
	if err != nil {
		return err
	}
	return c.http.Decode(resp, nil)
}

func validDownloadFormat(format string) bool {
	for _, f := range DownloadFormats {
		if f == format {
			return true
		}
	}
	return false
}
