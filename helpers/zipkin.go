package helpers

import (
	"net/http"

	"github.com/openzipkin/zipkin-go"
	zipkinhttp "github.com/openzipkin/zipkin-go/middleware/http"
	"github.com/openzipkin/zipkin-go/reporter"
	httpreporter "github.com/openzipkin/zipkin-go/reporter/http"
)

// Tracing groups what InitTracer builds
type Tracing struct {
	Middleware func(http.Handler) http.Handler
	Reporter   reporter.Reporter
}

// InitTracer reports spans to the Zipkin server at address. The
// reporter must be closed on shutdown to flush spans.
func InitTracer(address, port string) (*Tracing, error) {
	// set up a span reporter
	spanReporter := httpreporter.NewReporter("http://" + address + "/api/v2/spans")

	// create our local service endpoint
	endpoint, err := zipkin.NewEndpoint("mediaconnect", "localhost:"+port)
	if err != nil {
		spanReporter.Close()
		return nil, err
	}

	// initialize our tracer
	tracer, err := zipkin.NewTracer(spanReporter, zipkin.WithLocalEndpoint(endpoint))
	if err != nil {
		spanReporter.Close()
		return nil, err
	}

	return &Tracing{
		Middleware: zipkinhttp.NewServerMiddleware(tracer, zipkinhttp.TagResponseSize(true)),
		Reporter:   spanReporter,
	}, nil
}
