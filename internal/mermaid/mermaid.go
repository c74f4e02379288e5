// Package mermaid 为 mermaid 代码块生成在线编辑器和图片链接。
//
// 图表本身在浏览器里由 mermaid.js 绘制；这里生成的链接用于 figcaption
// 和 <noscript> 回退图片。
package mermaid

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html"
	"io"
)

const (
	liveURL = "https://mermaid.live/edit#"
	inkURL  = "https://mermaid.ink/img/"
)

// Config Mermaid 配置
type Config struct {
	Theme string `json:"theme"`
}

// DefaultConfig 返回默认 Mermaid 配置
func DefaultConfig() *Config {
	return &Config{
		Theme: "default",
	}
}

func deflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Pako encodes a diagram the way mermaid.live stores it in the URL fragment:
// JSON state, zlib, URL-safe base64.
func Pako(diagram string, config *Config) (string, error) {
	if config == nil {
		config = DefaultConfig()
	}
	state, err := json.Marshal(map[string]any{
		"code":    diagram,
		"mermaid": config,
	})
	if err != nil {
		return "", err
	}
	compressed, err := deflate(state)
	if err != nil {
		return "", err
	}
	return "pako:" + base64.URLEncoding.EncodeToString(compressed), nil
}

// Decode reverses Pako and returns the diagram source.
func Decode(pako string) (string, error) {
	const prefix = "pako:"
	if len(pako) < len(prefix) || pako[:len(prefix)] != prefix {
		return "", fmt.Errorf("not a pako string")
	}
	compressed, err := base64.URLEncoding.DecodeString(pako[len(prefix):])
	if err != nil {
		return "", err
	}
	r, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return "", err
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	var state struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return "", err
	}
	return state.Code, nil
}

// LiveURL 在线编辑器链接
func LiveURL(diagram string) (string, error) {
	pako, err := Pako(diagram, nil)
	if err != nil {
		return "", err
	}
	return liveURL + pako, nil
}

// InkURL 图片链接
func InkURL(diagram string) (string, error) {
	pako, err := Pako(diagram, nil)
	if err != nil {
		return "", err
	}
	return inkURL + pako + "?type=svg", nil
}

// WriteFigure writes the diagram as a <figure>: the source in
// <pre class="mermaid"> for mermaid.js, an editor link and an image for
// readers without JavaScript.
func WriteFigure(w io.Writer, diagram string) error {
	live, err := LiveURL(diagram)
	if err != nil {
		return err
	}
	img, err := InkURL(diagram)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w,
		"<figure class=\"mermaid-diagram\"><pre class=\"mermaid\">%s</pre>"+
			"<noscript><img src=\"%s\" alt=\"diagram\"></noscript>"+
			"<figcaption><a href=\"%s\">edit diagram</a></figcaption></figure>\n",
		html.EscapeString(diagram), html.EscapeString(img), html.EscapeString(live))
	return err
}
