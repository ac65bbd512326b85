// Package fuzztests houses fuzz harnesses for the diagram pipeline
// (source -> parser -> layout -> svg). They look for panics, hangs and
// layouts that break geometric invariants on arbitrary input.
//
// Назначение: прогонять произвольные байты через ParseDiagram и Layout.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/parser, internal/layout, internal/measure,
// internal/render, internal/testkit.
package fuzztests
