package translator

import (
	"context"
	"fmt"
	"strings"
	"sync"

	gst "github.com/richinsley/goshadertranslator"
)

var (
	translator    *gst.ShaderTranslator
	translatorErr error
	translatorMu  sync.Mutex
)

// GetTranslator returns the process-wide shader translator, creating it on first use.
func GetTranslator() (*gst.ShaderTranslator, error) {
	translatorMu.Lock()
	defer translatorMu.Unlock()
	if translator == nil && translatorErr == nil {
		translator, translatorErr = gst.NewShaderTranslator(context.Background())
	}
	return translator, translatorErr
}

// Shader is a translated stage ready for the driver.
type Shader struct {
	Code string
	// Names maps source identifiers to the names used in Code.
	Names map[string]string
}

// Translate converts WebGL2 (GLSL ES 3.00) source for one stage ("vertex" or
// "fragment") into GLSL 4.10 for desktop core contexts, or ESSL for GLES.
func Translate(source, stage string, gles bool) (*Shader, error) {
	tr, err := GetTranslator()
	if err != nil {
		return nil, fmt.Errorf("shader translator unavailable: %w", err)
	}

	outputFormat := gst.OutputFormatGLSL410
	if gles {
		outputFormat = gst.OutputFormatESSL
	}

	out, err := tr.TranslateShader(source, stage, gst.ShaderSpecWebGL2, outputFormat)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(out.Variables))
	for name, v := range out.Variables {
		names[name] = v.MappedName
	}
	return &Shader{Code: out.Code, Names: names}, nil
}

// MappedName resolves name through names. Array elements such as "textures[1]"
// resolve through their base identifier. Unknown names are returned unchanged.
func MappedName(names map[string]string, name string) string {
	if mapped, ok := names[name]; ok && mapped != "" {
		return mapped
	}
	if i := strings.IndexByte(name, '['); i > 0 {
		if mapped, ok := names[name[:i]]; ok && mapped != "" {
			return mapped + name[i:]
		}
	}
	return name
}
