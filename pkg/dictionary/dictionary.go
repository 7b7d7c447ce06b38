package dictionary

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"sort"

	"github.com/leonid6372/stock-ledger/pkg/format"
	"github.com/leonid6372/stock-ledger/pkg/log"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const DefaultLanguage = "en"

//go:embed dictionary.json
var dictionaryJSON []byte

type separators struct {
	digit   string
	decimal string
}

var languageSeparators = map[string]separators{
	"en": {digit: ",", decimal: "."},
	"es": {digit: ".", decimal: ","},
}

type Dictionary struct {
	dictionary map[string]map[string]string // map[language_code]map[key]value
}

// New loads the embedded dictionary.
func New() (*Dictionary, error) {
	return Parse(dictionaryJSON)
}

func Parse(data []byte) (*Dictionary, error) {
	var dictionary map[string]map[string]string
	if err := json.Unmarshal(data, &dictionary); err != nil {
		return nil, fmt.Errorf("failed to parse dictionary: %w", err)
	}

	if _, ok := dictionary[DefaultLanguage]; !ok {
		return nil, fmt.Errorf("dictionary has no %q texts", DefaultLanguage)
	}

	return &Dictionary{dictionary: dictionary}, nil
}

func (d *Dictionary) Languages() []string {
	langs := make([]string, 0, len(d.dictionary))

	for lang := range d.dictionary {
		langs = append(langs, lang)
	}

	sort.Strings(langs)

	return langs
}

// Text renders the template stored under key. Unknown languages fall back to
// DefaultLanguage, and numbers in values are formatted for the language.
func (d *Dictionary) Text(lang, key string, values ...map[string]any) string {
	if _, ok := d.dictionary[lang]; !ok {
		lang = DefaultLanguage
	}

	text, ok := d.dictionary[lang][key]
	if !ok {
		log.Error("Text: value not found", zap.String("lang", lang), zap.String("key", key))
		return ""
	}

	tmpl, err := template.New(key).Parse(text)
	if err != nil {
		return text
	}

	sep, ok := languageSeparators[lang]
	if !ok {
		sep = languageSeparators[DefaultLanguage]
	}

	valuesMap := map[string]any{}
	if len(values) > 0 {
		for k, value := range values[0] {
			switch v := value.(type) {
			case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, decimal.Decimal:
				valuesMap[k] = format.PrettyNumber(v, sep.digit, sep.decimal)
			default:
				valuesMap[k] = value
			}
		}
	}

	byteText := new(bytes.Buffer)
	if err = tmpl.Execute(byteText, valuesMap); err != nil {
		log.Error("Text: failed to execute template", zap.Error(err))
		return text
	}

	return byteText.String()
}
