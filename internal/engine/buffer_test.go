package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flushRecorder struct {
	mu      sync.Mutex
	flushes []struct{ key, text, quoted string }
}

func (r *flushRecorder) record(key, text, quoted string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flushes = append(r.flushes, struct{ key, text, quoted string }{key, text, quoted})
}

func (r *flushRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.flushes)
}

func (r *flushRecorder) last() (string, string, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f := r.flushes[len(r.flushes)-1]
	return f.key, f.text, f.quoted
}

func TestBufferDebounce(t *testing.T) {
	rec := &flushRecorder{}
	b := NewBuffer(40*time.Millisecond, rec.record)

	// cinco mensagens em sequência rápida -> um flush com tudo
	for _, txt := range []string{"oi", "quero", "dois", "picolés", "de coco"} {
		b.Ingest("5511@c.us", txt, "")
		time.Sleep(5 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)
	_, text, _ := rec.last()
	assert.Equal(t, "oi quero dois picolés de coco", text)

	// nada mais pendente
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, 1, rec.count())
	assert.False(t, b.Pending("5511@c.us"))
}

func TestBufferTimerRestartsOnIngest(t *testing.T) {
	rec := &flushRecorder{}
	b := NewBuffer(150*time.Millisecond, rec.record)

	b.Ingest("k", "a", "")
	time.Sleep(90 * time.Millisecond)
	b.Ingest("k", "b", "")
	time.Sleep(90 * time.Millisecond)

	// 180ms desde o primeiro ingest, mas só 90ms desde o último: sem flush
	assert.Equal(t, 0, rec.count())

	assert.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)
	_, text, _ := rec.last()
	assert.Equal(t, "a b", text)
}

func TestBufferKeysIndependent(t *testing.T) {
	rec := &flushRecorder{}
	b := NewBuffer(30*time.Millisecond, rec.record)

	b.Ingest("k1", "primeiro", "")
	b.Ingest("k2", "segundo", "")

	assert.Eventually(t, func() bool { return rec.count() == 2 }, time.Second, 5*time.Millisecond)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	texts := map[string]string{}
	for _, f := range rec.flushes {
		texts[f.key] = f.text
	}
	assert.Equal(t, map[string]string{"k1": "primeiro", "k2": "segundo"}, texts)
}

func TestBufferQuotedContextReplaced(t *testing.T) {
	rec := &flushRecorder{}
	b := NewBuffer(30*time.Millisecond, rec.record)

	b.Ingest("k", "a", "contexto antigo")
	b.Ingest("k", "b", "contexto novo")
	b.Ingest("k", "c", "")

	assert.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)
	_, text, quoted := rec.last()
	assert.Equal(t, "a b c", text)
	assert.Equal(t, "contexto novo", quoted)
}

func TestBufferEmptyFlushIsNoop(t *testing.T) {
	rec := &flushRecorder{}
	b := NewBuffer(10*time.Millisecond, rec.record)

	// flush de buffer vazio não chama o consumidor
	b.flush("fantasma", &bufferEntry{})
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 0, rec.count())
}

func TestBufferMessageDuringFlushStartsFresh(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	rec := &flushRecorder{}

	b := NewBuffer(10*time.Millisecond, func(key, text, quoted string) {
		rec.record(key, text, quoted)
		if rec.count() == 1 {
			close(started)
			<-release
		}
	})

	b.Ingest("k", "antiga", "")
	<-started

	// flush em voo: a mensagem nova começa buffer do zero
	b.Ingest("k", "nova", "")
	close(release)

	require.Eventually(t, func() bool { return rec.count() == 2 }, time.Second, 5*time.Millisecond)
	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, "antiga", rec.flushes[0].text)
	assert.Equal(t, "nova", rec.flushes[1].text)
}
