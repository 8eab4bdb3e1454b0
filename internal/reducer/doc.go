// Package reducer contém as transições puras da sessão de compras:
// cada função recebe o estado atual e devolve um novo estado, sem efeitos colaterais.
// Persistência, relógio e geração de IDs ficam com o chamador.
package reducer
