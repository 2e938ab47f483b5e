package blob

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/inventario-facturacion/internal/application/catalog"
)

// Verificar en tiempo de compilación que CloudinaryStorage implementa ImageStorage.
var _ catalog.ImageStorage = (*CloudinaryStorage)(nil)

// DefaultCloudinaryBaseURL raíz de la API de Cloudinary.
const DefaultCloudinaryBaseURL = "https://api.cloudinary.com/v1_1"

// CloudinaryConfig credenciales de la cuenta. APIKey/APISecret solo se requieren para eliminar.
type CloudinaryConfig struct {
	CloudName    string
	UploadPreset string
	APIKey       string
	APISecret    string
	BaseURL      string
}

// CloudinaryStorage sube imágenes con un preset sin firma y las elimina con firma SHA-1.
type CloudinaryStorage struct {
	cfg        CloudinaryConfig
	httpClient *http.Client
	now        func() time.Time
}

// NewCloudinaryStorage construye el adaptador.
func NewCloudinaryStorage(cfg CloudinaryConfig) *CloudinaryStorage {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultCloudinaryBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &CloudinaryStorage{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		now:        time.Now,
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sube la imagen a la carpeta products/<productID> y devuelve su URL segura.
func (s *CloudinaryStorage) Upload(ctx context.Context, productID, filename string, data []byte) (string, error) {
	if s.cfg.CloudName == "" || s.cfg.UploadPreset == "" {
		return "", fmt.Errorf("blob: Cloudinary no configurado")
	}
	if filename == "" {
		filename = "image"
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.WriteField("upload_preset", s.cfg.UploadPreset); err != nil {
		return "", fmt.Errorf("blob: armar formulario: %w", err)
	}
	if err := w.WriteField("folder", "products/"+productID); err != nil {
		return "", fmt.Errorf("blob: armar formulario: %w", err)
	}
	part, err := w.CreateFormFile("file", path.Base(filename))
	if err != nil {
		return "", fmt.Errorf("blob: armar formulario: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("blob: armar formulario: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("blob: armar formulario: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/image/upload", s.cfg.BaseURL, s.cfg.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("blob: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var out uploadResponse
	if err := s.do(req, &out); err != nil {
		return "", err
	}
	if out.SecureURL == "" {
		return "", fmt.Errorf("blob: respuesta sin secure_url")
	}
	return out.SecureURL, nil
}

// Delete elimina la imagen identificada por su URL. Requiere APIKey y APISecret.
func (s *CloudinaryStorage) Delete(ctx context.Context, imageURL string) error {
	if s.cfg.APIKey == "" || s.cfg.APISecret == "" {
		return fmt.Errorf("blob: eliminar requiere CLOUDINARY_API_KEY y CLOUDINARY_API_SECRET")
	}
	publicID, err := PublicIDFromURL(imageURL)
	if err != nil {
		return err
	}

	ts := strconv.FormatInt(s.now().Unix(), 10)
	form := url.Values{}
	form.Set("public_id", publicID)
	form.Set("timestamp", ts)
	form.Set("api_key", s.cfg.APIKey)
	form.Set("signature", Sign(map[string]string{"public_id": publicID, "timestamp": ts}, s.cfg.APISecret))

	endpoint := fmt.Sprintf("%s/%s/image/destroy", s.cfg.BaseURL, s.cfg.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("blob: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out struct {
		Result string `json:"result"`
	}
	if err := s.do(req, &out); err != nil {
		return err
	}
	if out.Result != "ok" && out.Result != "not found" {
		return fmt.Errorf("blob: destroy respondió %q", out.Result)
	}
	return nil
}

func (s *CloudinaryStorage) do(req *http.Request, out any) error {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("blob: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return fmt.Errorf("blob: leer respuesta: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr uploadResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != nil {
			return fmt.Errorf("blob: Cloudinary %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		return fmt.Errorf("blob: Cloudinary %d", resp.StatusCode)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("blob: decodificar respuesta: %w", err)
	}
	return nil
}

// Sign firma los parámetros como lo exige Cloudinary: claves ordenadas "k=v" unidas por "&" más el secreto, SHA-1 hex.
func Sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}

// PublicIDFromURL extrae el public_id de una URL de entrega:
// https://res.cloudinary.com/<cloud>/image/upload/v1712/products/p1/abc.jpg → products/p1/abc
func PublicIDFromURL(imageURL string) (string, error) {
	u, err := url.Parse(imageURL)
	if err != nil {
		return "", fmt.Errorf("blob: URL inválida: %w", err)
	}
	_, rest, ok := strings.Cut(u.Path, "/upload/")
	if !ok || rest == "" {
		return "", fmt.Errorf("blob: %q no es una URL de Cloudinary", imageURL)
	}
	segments := strings.Split(rest, "/")
	if len(segments) > 1 && isVersion(segments[0]) {
		segments = segments[1:]
	}
	id := strings.Join(segments, "/")
	return strings.TrimSuffix(id, path.Ext(id)), nil
}

func isVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	_, err := strconv.ParseInt(s[1:], 10, 64)
	return err == nil
}
