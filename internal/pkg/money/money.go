package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter converte valores da moeda base para a moeda de exibição
// e formata com o agrupamento de milhares do idioma configurado.
type Formatter struct {
	printer *message.Printer
	rate    float64
	symbol  string
}

// NewFormatter cria um Formatter. Idioma inválido cai para inglês; taxa <= 0 vira 1.
func NewFormatter(locale string, rate float64, symbol string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	if rate <= 0 {
		rate = 1
	}
	return &Formatter{printer: message.NewPrinter(tag), rate: rate, symbol: symbol}
}

// Convert aplica a taxa de câmbio ao valor na moeda base.
func (f *Formatter) Convert(base float64) float64 {
	return base * f.rate
}

// Format retorna o valor convertido, sem casas decimais, seguido do símbolo.
func (f *Formatter) Format(base float64) string {
	amount := f.printer.Sprintf("%.0f", f.Convert(base))
	if f.symbol == "" {
		return amount
	}
	return amount + " " + f.symbol
}
