package test

import (
	"math/rand"
	"strings"
)

const validTokens = "func;fib;(;);{;};ret;if;then;else;while;for;in;var;room;NUMS_ROOM;x;_tmp;\"this is a string\";\"\";'c';+;-;*;/;^;=;[;];,;:;42;3.14;2f;true;false;print;len;frag;sqrt;\n;\t"

func GetRandomTokens(size int) string {
	return GetRandomTokensWithSep(size, " ")
}

func GetRandomTokensWithSep(size int, sep string) string {
	valid := strings.Split(validTokens, ";")
	valid = append(valid, ";")

	var toks []string
	for len(toks) < size {
		toks = append(toks, valid[rand.Intn(len(valid))])
	}

	return strings.Join(toks, sep)
}
