// Package generic implements an adapter for OpenAI-compatible completion
// servers. It embeds the openai adapter, so requests, responses and errors
// are identical; only configuration differs: the base URL is mandatory and
// the API key may be omitted for local servers.
//
//	provider, err := generic.NewProvider(providers.ProviderConfig{
//	    Name:    "ollama",
//	    Type:    "generic",
//	    BaseURL: "http://localhost:11434/v1",
//	})
package generic
