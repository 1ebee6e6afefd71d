// Package openai implements the OpenAI provider adapter.
//
// The adapter posts the full message list to {base_url}/chat/completions
// with a bearer token, always asks for a single choice (n=1) and returns the
// content of the first choice. A successful status with an empty choices
// array is reported as a providers.ParseError.
//
//	provider, err := openai.NewProvider(providers.ProviderConfig{
//	    Name:    "openai",
//	    Type:    "openai",
//	    APIKey:  os.Getenv("OPENAI_API_KEY"),
//	    Timeout: 60 * time.Second,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
// HealthCheck lists models with GET {base_url}/models, which verifies both
// reachability and the API key without spending tokens.
package openai
