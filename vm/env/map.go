package env

import "github.com/refstake/refstake-go/core/state"

const maxEnvKeyLength = state.MaxContractStoreKeyLength

type Map struct {
	env    Env
	prefix []byte
	ctx    CallContext
}

// prefix length should be < maxEnvKeyLength or prefix will be truncated
func NewMap(prefix []byte, env Env, ctx CallContext) *Map {
	if len(prefix) >= maxEnvKeyLength {
		prefix = prefix[:maxEnvKeyLength-2]
	}
	return &Map{prefix: prefix, env: env, ctx: ctx}
}

func (m *Map) formatKey(key []byte) []byte {
	return append(append(make([]byte, 0, len(m.prefix)+len(key)), m.prefix...), key...)
}

func (m *Map) Set(key []byte, value []byte) {
	m.env.SetValue(m.ctx, m.formatKey(key), value)
}

func (m *Map) Get(key []byte) []byte {
	return m.env.GetValue(m.ctx, m.formatKey(key))
}

func (m *Map) Remove(key []byte) {
	m.env.RemoveValue(m.ctx, m.formatKey(key))
}

// Iterate visits the map entries in ascending key order.
func (m *Map) Iterate(f func(key []byte, value []byte) bool) {
	minKey := m.formatKey(nil)
	maxKey := m.formatKey(nil)
	for i := len(m.prefix); i < maxEnvKeyLength; i++ {
		maxKey = append(maxKey, 0xFF)
	}

	m.env.Iterate(m.ctx, minKey, maxKey, func(key []byte, value []byte) bool {
		return f(key[len(m.prefix):], value)
	})
}
