package ai

import (
	"fmt"
	"os"

	"github.com/felixgeelhaar/aiscan/internal/domain/ai"
)

// Scheme identifies a credential scheme for reaching the reasoning service.
type Scheme string

const (
	// SchemeAzure is the managed-cloud scheme: endpoint + key + deployment.
	SchemeAzure Scheme = "azure"
	// SchemeOpenAI is the direct-provider scheme: a single API key.
	SchemeOpenAI Scheme = "openai"
	// SchemeMock is the deterministic offline stub.
	SchemeMock Scheme = "mock"
)

// Environment variables recognized per scheme.
const (
	EnvAzureEndpoint   = "AZURE_OPENAI_ENDPOINT"
	EnvAzureAPIKey     = "AZURE_OPENAI_API_KEY"
	EnvAzureDeployment = "AZURE_OPENAI_DEPLOYMENT"
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
)

func azureConfigured() bool {
	return os.Getenv(EnvAzureEndpoint) != "" &&
		os.Getenv(EnvAzureAPIKey) != "" &&
		os.Getenv(EnvAzureDeployment) != ""
}

func openAIConfigured() bool {
	return os.Getenv(EnvOpenAIAPIKey) != ""
}

// ResolveScheme determines which credential scheme this run will use.
// With an explicit preference the scheme must be fully configured; without
// one, exactly one scheme must be resolvable from the environment.
func ResolveScheme(preferred string) (Scheme, error) {
	switch Scheme(preferred) {
	case SchemeMock:
		return SchemeMock, nil
	case SchemeAzure:
		if !azureConfigured() {
			return "", fmt.Errorf("%w: azure scheme requires %s, %s and %s",
				ErrNoCredentials, EnvAzureEndpoint, EnvAzureAPIKey, EnvAzureDeployment)
		}
		return SchemeAzure, nil
	case SchemeOpenAI:
		if !openAIConfigured() {
			return "", fmt.Errorf("%w: openai scheme requires %s", ErrNoCredentials, EnvOpenAIAPIKey)
		}
		return SchemeOpenAI, nil
	case "":
		azure, openai := azureConfigured(), openAIConfigured()
		switch {
		case azure && openai:
			return "", fmt.Errorf("%w: both azure and openai are configured; select one with --provider", ErrAmbiguousCredentials)
		case azure:
			return SchemeAzure, nil
		case openai:
			return SchemeOpenAI, nil
		default:
			return "", fmt.Errorf("%w: set %s or %s/%s/%s",
				ErrNoCredentials, EnvOpenAIAPIKey, EnvAzureEndpoint, EnvAzureAPIKey, EnvAzureDeployment)
		}
	default:
		return "", fmt.Errorf("unsupported classifier provider: %s", preferred)
	}
}

// NewProvider constructs the provider for a resolved scheme. The model
// parameter selects the model for the direct scheme and is ignored by the
// azure scheme, where the deployment decides.
func NewProvider(scheme Scheme, model string) (ai.Provider, error) {
	switch scheme {
	case SchemeAzure:
		return NewAzureOpenAIProvider(
			os.Getenv(EnvAzureEndpoint),
			os.Getenv(EnvAzureAPIKey),
			os.Getenv(EnvAzureDeployment),
		), nil
	case SchemeOpenAI:
		return NewOpenAIProvider(model, os.Getenv(EnvOpenAIAPIKey)), nil
	case SchemeMock:
		return &MockProvider{Model: model}, nil
	default:
		return nil, fmt.Errorf("unsupported classifier provider: %s", scheme)
	}
}
