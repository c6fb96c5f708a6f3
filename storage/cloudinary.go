package storage

import (
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// UploadedImage is what the image host hands back for a stored image.
type UploadedImage struct {
	URL      string
	PublicID string
}

// ImageStore is the image-host collaborator. Mutation flows call it but the
// core logic never depends on the concrete host.
type ImageStore interface {
	Upload(base64Image, publicID string) (*UploadedImage, error)
	Destroy(publicID string) error
}

// Cloudinary talks to the Cloudinary REST API with signed requests.
type Cloudinary struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
	Client    *http.Client
}

func NewCloudinary(cloudName, apiKey, apiSecret, folder string) *Cloudinary {
	return &Cloudinary{
		CloudName: cloudName,
		APIKey:    apiKey,
		APISecret: apiSecret,
		Folder:    folder,
		Client:    http.DefaultClient,
	}
}

func (c *Cloudinary) configured() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

// sign builds the SHA1 request signature Cloudinary expects over
// public_id + timestamp + secret.
func (c *Cloudinary) sign(publicID, timestamp string) string {
	payload := fmt.Sprintf("public_id=%s&timestamp=%s%s", publicID, timestamp, c.APISecret)
	return fmt.Sprintf("%x", sha1.Sum([]byte(payload)))
}

func (c *Cloudinary) qualify(publicID string) string {
	if c.Folder != "" {
		return c.Folder + "/" + publicID
	}
	return publicID
}

// Upload pushes a base64-encoded image and returns its URL and public id.
// A data-URI prefix on the payload is tolerated and stripped.
func (c *Cloudinary) Upload(base64Image, publicID string) (*UploadedImage, error) {
	if base64Image == "" {
		return nil, errors.New("cloudinary: empty image payload")
	}
	if !c.configured() {
		return nil, errors.New("cloudinary: missing credentials")
	}

	payload := base64Image
	if i := strings.Index(base64Image, ","); i != -1 {
		payload = base64Image[i+1:]
	}

	finalPublicID := c.qualify(publicID)
	timestamp := fmt.Sprintf("%d", time.Now().Unix())

	form := url.Values{}
	form.Add("file", "data:image/jpeg;base64,"+payload)
	form.Add("api_key", c.APIKey)
	form.Add("public_id", finalPublicID)
	form.Add("timestamp", timestamp)
	form.Add("signature", c.sign(finalPublicID, timestamp))

	endpoint := "https://api.cloudinary.com/v1_1/" + c.CloudName + "/image/upload"
	body, err := c.post(endpoint, form)
	if err != nil {
		return nil, err
	}

	var uploadRes struct {
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
		PublicID  string `json:"public_id"`
		Error     struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &uploadRes); err != nil {
		return nil, fmt.Errorf("cloudinary: decoding upload response: %w", err)
	}
	if uploadRes.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary: %s", uploadRes.Error.Message)
	}

	imageURL := uploadRes.SecureURL
	if imageURL == "" {
		imageURL = uploadRes.URL
	}
	if imageURL == "" {
		return nil, errors.New("cloudinary: no URL in upload response")
	}

	return &UploadedImage{URL: imageURL, PublicID: uploadRes.PublicID}, nil
}

// Destroy removes a previously uploaded image by its public id.
func (c *Cloudinary) Destroy(publicID string) error {
	if publicID == "" {
		return nil
	}
	if !c.configured() {
		return errors.New("cloudinary: missing credentials")
	}

	timestamp := fmt.Sprintf("%d", time.Now().Unix())

	form := url.Values{}
	form.Add("public_id", publicID)
	form.Add("api_key", c.APIKey)
	form.Add("timestamp", timestamp)
	form.Add("signature", c.sign(publicID, timestamp))

	endpoint := "https://api.cloudinary.com/v1_1/" + c.CloudName + "/image/destroy"
	body, err := c.post(endpoint, form)
	if err != nil {
		return err
	}

	var destroyRes struct {
		Result string `json:"result"`
		Error  struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &destroyRes); err != nil {
		return fmt.Errorf("cloudinary: decoding destroy response: %w", err)
	}
	if destroyRes.Error.Message != "" {
		return fmt.Errorf("cloudinary: %s", destroyRes.Error.Message)
	}
	if destroyRes.Result != "ok" && destroyRes.Result != "not found" {
		return fmt.Errorf("cloudinary: destroy result %q", destroyRes.Result)
	}

	return nil
}

func (c *Cloudinary) post(endpoint string, form url.Values) ([]byte, error) {
	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: reading response: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cloudinary: status %d: %s", res.StatusCode, string(body))
	}

	return body, nil
}
