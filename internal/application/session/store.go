// Package session mantiene la única fuente de verdad sobre "quién está autenticado".
//
// La sesión se guarda como dos entradas de un KeyValueStore: el token opaco bajo KeyToken y el
// usuario normalizado serializado bajo KeyUser. Token y usuario se escriben siempre juntos.
package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/jhoicas/gestion-horarios/internal/domain"
	"github.com/jhoicas/gestion-horarios/internal/domain/entity"
	"github.com/jhoicas/gestion-horarios/internal/domain/repository"
	"github.com/jhoicas/gestion-horarios/pkg/logger"
)

// Claves fijas del almacenamiento.
const (
	KeyToken = "auth_token"
	KeyUser  = "user_data"
)

// Store lee y escribe la sesión del proceso y avisa a los suscriptores cuando se vacía.
type Store struct {
	kv  repository.KeyValueStore
	log *logger.Logger

	// mu serializa escrituras (Set y Clear) para que una limpieza no se intercale con un login.
	mu sync.Mutex

	subsMu sync.RWMutex
	subs   map[int]func(entity.ClearEvent)
	nextID int
}

// NewStore construye el store sobre el almacenamiento indicado.
func NewStore(kv repository.KeyValueStore, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{
		kv:   kv,
		log:  log.Component("session"),
		subs: map[int]func(entity.ClearEvent){},
	}
}

// Get devuelve la sesión actual. Sin token el usuario se descarta; un user_data corrupto se
// trata como ausente. Solo devuelve error si falla el almacenamiento.
func (s *Store) Get(ctx context.Context) (entity.Session, error) {
	token, ok, err := s.kv.Get(ctx, KeyToken)
	if err != nil {
		return entity.Session{}, err
	}
	if !ok || token == "" {
		return entity.Session{}, nil
	}
	sess := entity.Session{Token: token}

	raw, ok, err := s.kv.Get(ctx, KeyUser)
	if err != nil {
		return entity.Session{}, err
	}
	if ok && raw != "" {
		var u entity.User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			s.log.Warn().Err(err).Msg("user_data corrupto; se ignora")
		} else {
			sess.User = &u
		}
	}
	return sess, nil
}

// Token devuelve el token guardado o "" si no hay (o si el almacenamiento falla).
func (s *Store) Token(ctx context.Context) string {
	token, ok, err := s.kv.Get(ctx, KeyToken)
	if err != nil {
		s.log.Error().Err(err).Msg("leer token")
		return ""
	}
	if !ok {
		return ""
	}
	return token
}

// Set reemplaza la sesión completa en una sola escritura. Si sess.User es nil se elimina el
// usuario anterior en la misma operación.
func (s *Store) Set(ctx context.Context, sess entity.Session) error {
	if sess.Token == "" {
		return domain.ErrInvalidInput
	}
	set := map[string]string{KeyToken: sess.Token}
	var remove []string
	if sess.User != nil {
		b, err := json.Marshal(sess.User)
		if err != nil {
			return err
		}
		set[KeyUser] = string(b)
	} else {
		remove = append(remove, KeyUser)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Write(ctx, set, remove...)
}

// Clear vacía la sesión y notifica a los suscriptores. Limpiar una sesión vacía es válido y
// también notifica (HadToken=false).
func (s *Store) Clear(ctx context.Context, reason entity.ClearReason) error {
	s.mu.Lock()
	_, had, _ := s.kv.Get(ctx, KeyToken)
	err := s.kv.Write(ctx, nil, KeyToken, KeyUser)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.log.Debug().Str("reason", string(reason)).Bool("had_token", had).Msg("sesión limpiada")
	s.emit(entity.ClearEvent{Reason: reason, HadToken: had})
	return nil
}

// Subscribe registra fn para cada limpieza. Devuelve la función para cancelar la suscripción.
// fn se invoca en la goroutine que limpió; debe ser rápida.
func (s *Store) Subscribe(fn func(entity.ClearEvent)) (unsubscribe func()) {
	s.subsMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subsMu.Unlock()

	return func() {
		s.subsMu.Lock()
		delete(s.subs, id)
		s.subsMu.Unlock()
	}
}

func (s *Store) emit(ev entity.ClearEvent) {
	s.subsMu.RLock()
	fns := make([]func(entity.ClearEvent), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subsMu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}
