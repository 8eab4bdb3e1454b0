package logger

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Logger define a interface para logging estruturado.
// Serviços, repositórios e a fila de persistência dependem apenas desta interface.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error)
	Fatal(msg string, err error)
}

// LogEntry define a estrutura de um log para garantir o formato JSON.
type LogEntry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

var levels = map[string]int{
	"debug": 0,
	"info":  1,
	"warn":  2,
	"error": 3,
	"fatal": 4,
	"off":   5,
}

// SimpleLogger escreve cada entrada como uma linha JSON.
type SimpleLogger struct {
	mu       sync.Mutex
	out      io.Writer
	minLevel int
	exit     func(code int)
}

// NewLogger cria um Logger que escreve no stderr. Chamado no main.
func NewLogger(level string) Logger {
	return New(level, os.Stderr)
}

// New cria um Logger com destino explícito (usado nos testes para capturar a saída).
func New(level string, out io.Writer) *SimpleLogger {
	minLevel, ok := levels[strings.ToLower(level)]
	if !ok {
		minLevel = levels["info"] // nível desconhecido cai para info
	}
	return &SimpleLogger{out: out, minLevel: minLevel, exit: os.Exit}
}

// NewNopLogger descarta todas as entradas.
func NewNopLogger() Logger {
	return New("off", io.Discard)
}

func (l *SimpleLogger) logf(level, msg string, fields map[string]interface{}, err error) {
	if levels[level] < l.minLevel {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now().Format(time.RFC3339),
		Level:     strings.ToUpper(level),
		Message:   msg,
		Fields:    fields,
	}
	if err != nil {
		entry.Error = err.Error()
	}

	jsonBytes, marshalErr := json.Marshal(entry)
	if marshalErr != nil {
		// Campos não serializáveis: registra apenas a mensagem.
		entry.Fields = nil
		jsonBytes, _ = json.Marshal(entry)
	}

	l.mu.Lock()
	_, _ = l.out.Write(append(jsonBytes, '\n'))
	l.mu.Unlock()

	if level == "fatal" {
		l.exit(1)
	}
}

func (l *SimpleLogger) Debug(msg string, fields map[string]interface{}) {
	l.logf("debug", msg, fields, nil)
}

func (l *SimpleLogger) Info(msg string, fields map[string]interface{}) {
	l.logf("info", msg, fields, nil)
}

func (l *SimpleLogger) Warn(msg string, fields map[string]interface{}) {
	l.logf("warn", msg, fields, nil)
}

func (l *SimpleLogger) Error(msg string, err error) {
	l.logf("error", msg, nil, err)
}

func (l *SimpleLogger) Fatal(msg string, err error) {
	l.logf("fatal", msg, nil, err)
}
