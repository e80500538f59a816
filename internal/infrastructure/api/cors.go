package api

import "net/http"

type headerPair struct {
	name  string
	value string
}

// corsHeaders is the fixed, process-wide CORS policy; every gateway response carries it.
var corsHeaders = [...]headerPair{
	{name: "Access-Control-Allow-Origin", value: "*"},
	{name: "Access-Control-Allow-Headers", value: "authorization, x-client-info, apikey, content-type"},
	{name: "Access-Control-Allow-Methods", value: "POST, OPTIONS"},
	{name: "Access-Control-Max-Age", value: "86400"},
}

func applyCORS(h http.Header) {
	for _, pair := range corsHeaders {
		h.Set(pair.name, pair.value)
	}
}
