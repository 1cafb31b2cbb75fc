package cli

import (
	"context"
	"errors"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"testing"

	"github.com/crmarques/srvinv/config"
	"github.com/crmarques/srvinv/core"
	"github.com/crmarques/srvinv/faults"
	"github.com/crmarques/srvinv/identity"
	clitestkit "github.com/crmarques/srvinv/internal/cli/testkit"
	"github.com/crmarques/srvinv/inventory"
	"github.com/crmarques/srvinv/transport"
	"github.com/spf13/cobra"
)

type staticLoader struct {
	cfg config.Config
}

func (l staticLoader) Load(context.Context, string) (config.Config, error) {
	return l.cfg, nil
}

// testService is an in-memory inventory service keyed by plural collection
// name and object id.
type testService struct {
	mu       sync.Mutex
	objects  map[string]map[string]inventory.Object
	order    map[string][]string
	calls    []string
	override map[string]transport.Response
}

func newTestService() *testService {
	service := &testService{
		objects:  map[string]map[string]inventory.Object{},
		order:    map[string][]string{},
		override: map[string]transport.Response{},
	}
	service.seed(inventory.Networks, inventory.Object{
		"name":    inventory.String("lan"),
		"netmask": inventory.String("10.0.3.0/24"),
	})
	service.seed(inventory.Servers, inventory.Object{
		"name":        inventory.String("srv003007"),
		"environment": inventory.String("prod-eu"),
		"cpus":        inventory.Int(8),
		"roles":       inventory.List(inventory.String("web")),
	})
	service.seed(inventory.Servers, inventory.Object{
		"name":        inventory.String("srv003008"),
		"environment": inventory.String("staging"),
		"cpus":        inventory.Int(2),
	})
	return service
}

func (s *testService) seed(collection string, object inventory.Object) {
	plural := inventory.Plural(collection)
	if s.objects[plural] == nil {
		s.objects[plural] = map[string]inventory.Object{}
	}
	s.objects[plural][object.Name()] = object
	s.order[plural] = append(s.order[plural], object.Name())
}

func (s *testService) object(collection string, id string) (inventory.Object, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	object, ok := s.objects[inventory.Plural(collection)][id]
	return object, ok
}

func (s *testService) requests(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, call := range s.calls {
		if strings.HasPrefix(call, prefix) {
			total++
		}
	}
	return total
}

func (s *testService) Do(_ context.Context, request transport.Request) transport.Response {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := request.Method + " " + request.Path()
	s.calls = append(s.calls, key)
	if forced, ok := s.override[key]; ok {
		return forced
	}

	plural := inventory.Plural(request.Collection)
	if s.objects[plural] == nil {
		s.objects[plural] = map[string]inventory.Object{}
	}
	objects := s.objects[plural]

	switch {
	case request.Method == http.MethodGet && request.ID == "":
		items := make([]inventory.Value, 0, len(objects))
		for _, name := range s.order[plural] {
			if object, ok := objects[name]; ok {
				items = append(items, object.Value())
			}
		}
		return transport.Response{Status: http.StatusOK, Payload: inventory.List(items...)}
	case request.Method == http.MethodGet:
		object, ok := objects[request.ID]
		if !ok {
			return transport.Response{Status: http.StatusNotFound}
		}
		return transport.Response{Status: http.StatusOK, Payload: object.Value()}
	case request.Method == http.MethodPost:
		payload, err := inventory.Parse(request.Body)
		if err != nil {
			return transport.Response{Status: http.StatusBadRequest}
		}
		object, _ := inventory.ObjectFromValue(payload)
		if _, exists := objects[object.Name()]; exists {
			return transport.Response{Status: http.StatusConflict}
		}
		objects[object.Name()] = object
		s.order[plural] = append(s.order[plural], object.Name())
		return transport.Response{Status: http.StatusCreated}
	case request.Method == http.MethodPatch:
		object, ok := objects[request.ID]
		if !ok {
			return transport.Response{Status: http.StatusNotFound}
		}
		payload, err := inventory.Parse(request.Body)
		if err != nil {
			return transport.Response{Status: http.StatusBadRequest}
		}
		envelope, _ := inventory.ObjectFromValue(payload)
		value := envelope["value"]
		if current, exists := object[request.Attribute]; exists && current.Equal(value) {
			return transport.Response{Status: http.StatusNotModified}
		}
		object[request.Attribute] = value
		return transport.Response{Status: http.StatusAccepted}
	case request.Method == http.MethodDelete:
		if _, ok := objects[request.ID]; !ok {
			return transport.Response{Status: http.StatusNotFound}
		}
		delete(objects, request.ID)
		return transport.Response{Status: http.StatusAccepted}
	default:
		return transport.Response{Status: http.StatusMethodNotAllowed}
	}
}

type testPrompter struct {
	answer  bool
	prompts []string
}

func (p *testPrompter) Confirm(_ *cobra.Command, prompt string) (bool, error) {
	p.prompts = append(p.prompts, prompt)
	return p.answer, nil
}

type testHarness struct {
	service *testService
	cfg     config.Config
	opts    []core.BootstrapConfig
	addrs   []netip.Addr
}

func newTestHarness() *testHarness {
	return &testHarness{
		service: newTestService(),
		cfg: config.Config{
			Server: config.Server{BaseURL: "http://inventory.test:5000"},
			Cache:  config.Cache{Backend: config.CacheBackendMemory},
		},
		addrs: []netip.Addr{netip.MustParseAddr("10.0.3.7")},
	}
}

func (h *testHarness) deps() Dependencies {
	return Dependencies{
		Bootstrap: func(ctx context.Context, opts core.BootstrapConfig) (core.Inventory, error) {
			h.opts = append(h.opts, opts)
			opts.Loader = staticLoader{cfg: h.cfg}
			opts.Transport = h.service
			opts.Interfaces = func() ([]identity.Interface, error) {
				return []identity.Interface{
					{Name: "lo", Addrs: []netip.Addr{netip.MustParseAddr("127.0.0.1")}},
					{Name: "eth0", Addrs: h.addrs},
				}, nil
			}
			return core.NewInventory(ctx, opts)
		},
		Prompter: &testPrompter{answer: true},
	}
}

func executeForTest(deps Dependencies, stdin string, args ...string) (string, error) {
	return clitestkit.ExecuteCommandForTest(NewRootCommand(deps), stdin, args...)
}

func executeForTestWithStreams(deps Dependencies, stdin string, args ...string) (string, string, error) {
	return clitestkit.ExecuteCommandForTestWithStreams(NewRootCommand(deps), stdin, args...)
}

func assertTypedCategory(t *testing.T, err error, category faults.ErrorCategory) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected %q error, got nil", category)
	}

	var typedErr *faults.TypedError
	if !errors.As(err, &typedErr) {
		t.Fatalf("expected typed error, got %T (%v)", err, err)
	}
	if typedErr.Category != category {
		t.Fatalf("expected %q category, got %q", category, typedErr.Category)
	}
}

func assertExitCode(t *testing.T, err error, want int) {
	t.Helper()

	if got := ExitCodeForError(err); got != want {
		t.Fatalf("exit code = %d, want %d (err %v)", got, want, err)
	}
}
