// Package fuzztests houses Go fuzz harnesses that exercise the whole pipeline
// (source -> lexer -> parser -> evaluator). Its goal is to smoke test
// robustness and guard against panics, hangs and span corruption on arbitrary
// inputs.
//
// Назначение: загружать байты в FileSet и прогонять их через лексер, парсер и
// вычислитель, проверяя инварианты спанов и согласованность ошибок с Bag.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
