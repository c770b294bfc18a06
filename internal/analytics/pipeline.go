package analytics

import "slices"

// Etapas del pipeline: funciones puras sobre slices, compuestas explícitamente
// por cada consulta (filter → unwind → lookup → group → sort → limit → project).

// Filter conserva los elementos que cumplen keep
func Filter[T any](in []T, keep func(T) bool) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// Unwind aplana cada documento en sus sub-documentos
func Unwind[T, U any](in []T, children func(T) []U) []U {
	out := make([]U, 0, len(in))
	for _, v := range in {
		out = append(out, children(v)...)
	}
	return out
}

// Index indexa documentos por clave para resolver referencias
func Index[K comparable, V any](docs []V, key func(V) K) map[K]V {
	idx := make(map[K]V, len(docs))
	for _, d := range docs {
		idx[key(d)] = d
	}
	return idx
}

// Lookup une cada elemento con el documento referenciado.
// Los elementos cuya referencia no resuelve se descartan.
func Lookup[T any, K comparable, V, R any](in []T, ref func(T) K, index map[K]V, join func(T, V) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		doc, ok := index[ref(v)]
		if !ok {
			continue
		}
		out = append(out, join(v, doc))
	}
	return out
}

// Grouped es el resultado de Group para una clave
type Grouped[K comparable, A any] struct {
	Key K
	Acc A
}

// Group agrupa por clave acumulando con acc; el orden de salida es el de primera aparición
func Group[T any, K comparable, A any](in []T, key func(T) K, acc func(A, T) A) []Grouped[K, A] {
	pos := make(map[K]int)
	var out []Grouped[K, A]
	for _, v := range in {
		k := key(v)
		i, ok := pos[k]
		if !ok {
			i = len(out)
			pos[k] = i
			var zero A
			out = append(out, Grouped[K, A]{Key: k, Acc: zero})
		}
		out[i].Acc = acc(out[i].Acc, v)
	}
	return out
}

// Sort devuelve una copia ordenada de forma estable
func Sort[T any](in []T, cmp func(a, b T) int) []T {
	out := slices.Clone(in)
	slices.SortStableFunc(out, cmp)
	return out
}

// Limit recorta a n elementos; n <= 0 no limita
func Limit[T any](in []T, n int) []T {
	if n <= 0 || n >= len(in) {
		return in
	}
	return in[:n]
}

// Project transforma cada elemento
func Project[T, R any](in []T, f func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}
