package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	DefaultLocale  = "pt-BR"
	FallbackLocale = "en"
	messagesFile   = "messages.yaml"
)

type Translations map[string]string

//go:embed locales
var bundled embed.FS

var (
	locales = make(map[string]Translations)
	mu      sync.RWMutex
)

func init() {
	sub, err := fs.Sub(bundled, "locales")
	if err != nil {
		panic(err)
	}
	if err := load(sub); err != nil {
		panic(err)
	}
}

// LoadTranslations merges the locale directories under localePath over the
// bundled translations. Each locale lives in <localePath>/<locale>/messages.yaml.
func LoadTranslations(localePath string) error {
	if _, err := os.Stat(localePath); err != nil {
		return err
	}
	return load(os.DirFS(localePath))
}

func load(fsys fs.FS) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		locale := entry.Name()
		filePath := filepath.ToSlash(filepath.Join(locale, messagesFile))

		data, err := fs.ReadFile(fsys, filePath)
		if err != nil {
			continue
		}

		var doc struct {
			CostTypes Translations `yaml:"COST_TYPES"`
			Messages  Translations `yaml:"MESSAGES"`
		}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to parse %s: %w", filePath, err)
		}

		trans, ok := locales[locale]
		if !ok {
			trans = make(Translations)
			locales[locale] = trans
		}
		for k, v := range doc.CostTypes {
			trans["cost_type."+k] = v
		}
		for k, v := range doc.Messages {
			trans[k] = v
		}
	}

	return nil
}

func Translate(locale, key string) string {
	mu.RLock()
	defer mu.RUnlock()

	if trans, ok := locales[locale]; ok {
		if val, ok := trans[key]; ok {
			return val
		}
	}

	if locale != FallbackLocale {
		if trans, ok := locales[FallbackLocale]; ok {
			if val, ok := trans[key]; ok {
				return val
			}
		}
	}

	return key
}

// Format translates key and substitutes {name} placeholders from vars.
func Format(locale, key string, vars map[string]string) string {
	text := Translate(locale, key)
	if len(vars) == 0 {
		return text
	}

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(vars)*2)
	for _, name := range names {
		pairs = append(pairs, "{"+name+"}", vars[name])
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// CostTypeLabel returns the display label of an extra cost type code.
func CostTypeLabel(locale, code string) string {
	label := Translate(locale, "cost_type."+code)
	if label == "cost_type."+code {
		return code
	}
	return label
}
