package media

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/h2non/filetype"
)

// Asset is a materialized media item ready for multipart upload. TempPath is
// set when the bytes came from a scratch file the caller should delete after
// the request completes.
type Asset struct {
	Bytes    []byte
	MIMEType string
	FileName string
	TempPath string
}

type Materializer struct {
	reader Reader
	client *http.Client
}

func NewMaterializer(reader Reader, client *http.Client) *Materializer {
	if client == nil {
		client = http.DefaultClient
	}
	return &Materializer{reader: reader, client: client}
}

// Materialize turns a resolved source into upload-ready bytes plus metadata.
// No network call is made by callers before at least one asset materializes,
// so failures here abort submission without partial side effects.
func (m *Materializer) Materialize(ctx context.Context, src Source, mimeHint string) (*Asset, error) {
	switch src.Kind {
	case KindDataURI:
		return m.fromDataURI(src.URI, mimeHint)
	case KindRemoteURL:
		return m.fromRemoteURL(ctx, src.URI, mimeHint)
	case KindLocalFile:
		asset, err := m.fromLocalFile(src.URI, mimeHint)
		if err == nil && src.Temp {
			asset.TempPath = src.URI
		}
		return asset, err
	default:
		return nil, fmt.Errorf("unknown media source kind %d", src.Kind)
	}
}

func (m *Materializer) fromDataURI(uri, mimeHint string) (*Asset, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("malformed data URI")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding data URI payload: %w", err)
	}

	mimeType := strings.TrimSuffix(header, ";base64")
	if mimeType == "" {
		mimeType = mimeHint
	}

	return &Asset{
		Bytes:    data,
		MIMEType: resolveMIME("", mimeType, data),
		FileName: defaultFileName(mimeType),
	}, nil
}

func (m *Materializer) fromRemoteURL(ctx context.Context, rawURL, mimeHint string) (*Asset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}

	name := fileNameFromURI(rawURL)
	return &Asset{
		Bytes:    data,
		MIMEType: resolveMIME(name, mimeHint, data),
		FileName: name,
	}, nil
}

func (m *Materializer) fromLocalFile(filePath, mimeHint string) (*Asset, error) {
	data, err := m.reader.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &FileMissingError{Path: filePath}
		}
		return nil, fmt.Errorf("reading %s: %w", filePath, err)
	}

	name := fileNameFromURI(filePath)
	return &Asset{
		Bytes:    data,
		MIMEType: resolveMIME(name, mimeHint, data),
		FileName: name,
	}, nil
}

// Spool writes an uploaded stream to scratch storage and returns a local
// source pointing at it, so direct uploads flow through the same pipeline as
// picked URIs.
func (m *Materializer) Spool(fileName string, r io.Reader) (Source, error) {
	scratchPath, err := m.reader.WriteScratch(path.Ext(fileName), r)
	if err != nil {
		return Source{}, err
	}
	return Source{Kind: KindLocalFile, URI: scratchPath, Temp: true}, nil
}

// Cleanup deletes an asset's scratch file, best-effort.
func (m *Materializer) Cleanup(a *Asset) {
	if a == nil || a.TempPath == "" {
		return
	}
	if err := m.reader.Remove(a.TempPath); err != nil {
		slog.Info(err.Error())
	}
}

func fileNameFromURI(uri string) string {
	trimmed := uri
	if u, err := url.Parse(uri); err == nil && u.Path != "" {
		trimmed = u.Path
	}
	name := path.Base(trimmed)
	if name == "" || name == "." || name == "/" {
		return defaultFileName("")
	}
	return name
}

func defaultFileName(mimeType string) string {
	ext := ".bin"
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		ext = exts[0]
	}
	return fmt.Sprintf("upload-%d%s", time.Now().UnixNano(), ext)
}

// resolveMIME prefers the file extension, then the caller's hint, then a
// content sniff as the last resort.
func resolveMIME(fileName, hint string, data []byte) string {
	if ext := strings.TrimPrefix(path.Ext(fileName), "."); ext != "" {
		if byExt := mime.TypeByExtension("." + ext); byExt != "" {
			return byExt
		}
	}
	if hint != "" {
		return hint
	}
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		return kind.MIME.Value
	}
	return "application/octet-stream"
}
