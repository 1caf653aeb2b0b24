package engine

import (
	"sync"
	"time"
)

// debounce padrão: a IA só responde depois que o cliente para de digitar
const DefaultFlushDelay = 15 * time.Second

type bufferEntry struct {
	text   string
	quoted string
	timer  *time.Timer
}

// Buffer agrega mensagens por conversa e entrega um bloco único depois
// de um período quieto. Cada nova mensagem reinicia o timer (debounce):
// cinco mensagens em dez segundos viram um flush só, contado a partir
// da última.
type Buffer struct {
	delay   time.Duration
	consume func(key, text, quoted string)

	mu      sync.Mutex
	entries map[string]*bufferEntry

	// serializa flushes da mesma conversa; conversas diferentes correm
	// em paralelo
	keyLocks sync.Map // string -> *sync.Mutex
}

func NewBuffer(delay time.Duration, consume func(key, text, quoted string)) *Buffer {
	return &Buffer{
		delay:   delay,
		consume: consume,
		entries: make(map[string]*bufferEntry),
	}
}

// Ingest acumula texto na conversa e (re)arma o timer de flush.
// quoted, quando presente, substitui o contexto citado anterior.
func (b *Buffer) Ingest(key, text, quoted string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if e, ok := b.entries[key]; ok && e.timer.Stop() {
		e.text += " " + text
		if quoted != "" {
			e.quoted = quoted
		}
		e.timer.Reset(b.delay)
		return
	}

	// ou não havia entrada, ou o timer já disparou e o flush antigo está
	// em voo com o conteúdo dele — esta mensagem começa um buffer novo
	e := &bufferEntry{text: text, quoted: quoted}
	e.timer = time.AfterFunc(b.delay, func() { b.flush(key, e) })
	b.entries[key] = e
}

func (b *Buffer) flush(key string, e *bufferEntry) {
	b.mu.Lock()
	if b.entries[key] == e {
		delete(b.entries, key)
	}
	text, quoted := e.text, e.quoted
	b.mu.Unlock()

	if text == "" {
		return
	}

	lock, _ := b.keyLocks.LoadOrStore(key, &sync.Mutex{})
	km := lock.(*sync.Mutex)
	km.Lock()
	defer km.Unlock()
	b.consume(key, text, quoted)
}

// Pending diz se a conversa tem flush armado (usado em teste e na
// superfície de inspeção).
func (b *Buffer) Pending(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.entries[key]
	return ok
}
