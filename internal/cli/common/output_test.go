package common

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/crmarques/srvinv/faults"
	"github.com/crmarques/srvinv/inventory"
	"github.com/spf13/cobra"
)

func newOutputCommand() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	command := &cobra.Command{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	command.SetOut(stdout)
	command.SetErr(stderr)
	command.SetContext(context.Background())
	return command, stdout, stderr
}

func TestWriteOutputSuppressesNilPayload(t *testing.T) {
	t.Parallel()

	command, stdout, _ := newOutputCommand()

	var value any
	if err := WriteOutput(command, OutputJSON, value, nil); err != nil {
		t.Fatalf("WriteOutput returned error: %v", err)
	}
	if got := stdout.String(); got != "" {
		t.Fatalf("expected empty output for nil payload, got %q", got)
	}
}

func TestWriteValueFormats(t *testing.T) {
	t.Parallel()

	value := inventory.Mapping(map[string]inventory.Value{
		"name":  inventory.String("srv003007"),
		"cpus":  inventory.Int(8),
		"roles": inventory.List(inventory.String("web")),
	})

	testCases := []struct {
		name   string
		flags  GlobalFlags
		value  inventory.Value
		output string
	}{
		{
			name:   "auto is json",
			flags:  GlobalFlags{Output: OutputAuto},
			value:  inventory.String("prod-eu"),
			output: "\"prod-eu\"\n",
		},
		{
			name:   "text string",
			flags:  GlobalFlags{Output: OutputText},
			value:  inventory.String("prod-eu"),
			output: "prod-eu\n",
		},
		{
			name:   "text null",
			flags:  GlobalFlags{Output: OutputText},
			value:  inventory.Null(),
			output: "\n",
		},
		{
			name:   "text list",
			flags:  GlobalFlags{Output: OutputText},
			value:  inventory.List(inventory.String("a"), inventory.Int(1)),
			output: "[\"a\",1]\n",
		},
		{
			name:   "yaml mapping",
			flags:  GlobalFlags{Output: OutputYAML},
			value:  value,
			output: "cpus: 8\nname: srv003007\nroles:\n  - web\n",
		},
		{
			name:   "query emits every result",
			flags:  GlobalFlags{Output: OutputText, Query: ".roles[], .cpus"},
			value:  value,
			output: "web\n8\n",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			command, stdout, _ := newOutputCommand()
			if err := WriteValue(command, &testCase.flags, testCase.value); err != nil {
				t.Fatalf("WriteValue returned error: %v", err)
			}
			if got := stdout.String(); got != testCase.output {
				t.Fatalf("WriteValue() = %q, want %q", got, testCase.output)
			}
		})
	}
}

func TestWriteSnapshotText(t *testing.T) {
	t.Parallel()

	command, stdout, _ := newOutputCommand()
	snapshot := inventory.Snapshot{
		{"name": inventory.String("lan")},
		{"name": inventory.String("dmz")},
	}
	if err := WriteSnapshot(command, &GlobalFlags{Output: OutputText}, snapshot); err != nil {
		t.Fatalf("WriteSnapshot returned error: %v", err)
	}
	if got := stdout.String(); got != "lan\ndmz\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestApplyQuery(t *testing.T) {
	t.Parallel()

	big, err := inventory.Number("123456789012345678901234567890")
	if err != nil {
		t.Fatalf("Number returned error: %v", err)
	}
	input := inventory.Mapping(map[string]inventory.Value{
		"serial": big,
		"ratio":  inventory.Float(0.5),
	})

	results, err := ApplyQuery(context.Background(), "[.serial, .ratio * 2]", input)
	if err != nil {
		t.Fatalf("ApplyQuery returned error: %v", err)
	}
	want := inventory.List(big, inventory.Int(1))
	if len(results) != 1 || !results[0].Equal(want) {
		t.Fatalf("ApplyQuery() = %v, want %v", results, want)
	}

	if _, err := ApplyQuery(context.Background(), ".[", input); !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected validation error for bad expression, got %v", err)
	}
	if _, err := ApplyQuery(context.Background(), "error(\"boom\")", input); !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected validation error for failing expression, got %v", err)
	}
}

func TestSplitIDs(t *testing.T) {
	t.Parallel()

	ids, err := SplitIDs("srv003007, srv003008,self")
	if err != nil {
		t.Fatalf("SplitIDs returned error: %v", err)
	}
	if strings.Join(ids, "|") != "srv003007|srv003008|self" {
		t.Fatalf("unexpected ids %v", ids)
	}

	if _, err := SplitIDs("a,,b"); !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFanOutKeepsOrder(t *testing.T) {
	t.Parallel()

	ids := []string{"a", "b", "c", "d", "e", "f"}
	var running, peak atomic.Int32
	outcomes := FanOut(context.Background(), ids, func(_ context.Context, id string) Outcome {
		current := running.Add(1)
		for {
			seen := peak.Load()
			if current <= seen || peak.CompareAndSwap(seen, current) {
				break
			}
		}
		defer running.Add(-1)

		value := inventory.String(strings.ToUpper(id))
		return Outcome{Value: &value}
	})

	for idx, outcome := range outcomes {
		if outcome.ID != ids[idx] {
			t.Fatalf("outcome %d has id %q, want %q", idx, outcome.ID, ids[idx])
		}
		if got, _ := outcome.Value.AsString(); got != strings.ToUpper(ids[idx]) {
			t.Fatalf("outcome %d value %q", idx, got)
		}
	}
	if peak.Load() > maxConcurrentIDs {
		t.Fatalf("peak concurrency %d exceeds %d", peak.Load(), maxConcurrentIDs)
	}
}

func TestReportReturnsLastFailure(t *testing.T) {
	t.Parallel()

	command, stdout, stderr := newOutputCommand()
	value := inventory.String("ok")
	outcomes := []Outcome{
		{ID: "a", Message: "resource not found", Err: inventory.FetchNotFound.Err()},
		{ID: "b", Value: &value},
		{ID: "c", Message: "attribute not set", Err: inventory.FetchAttributeMissing.Err()},
	}

	err := Report(command, &GlobalFlags{Output: OutputText}, outcomes)
	if stdout.String() != "ok\n" {
		t.Fatalf("unexpected stdout %q", stdout.String())
	}
	if stderr.String() != "resource not found\nattribute not set\n" {
		t.Fatalf("unexpected stderr %q", stderr.String())
	}

	var codeErr *inventory.CodeError
	if !IsReported(err) || !errors.As(err, &codeErr) || codeErr.Code != int(inventory.FetchAttributeMissing) {
		t.Fatalf("expected reported code 2, got %v", err)
	}

	if err := Report(command, &GlobalFlags{Output: OutputText}, []Outcome{{ID: "d"}}); err != nil {
		t.Fatalf("expected nil error for success, got %v", err)
	}
}

func TestResolveAttributeArgs(t *testing.T) {
	t.Parallel()

	newCommand := func(args ...string) (*cobra.Command, *AttributeFlags) {
		flags := &AttributeFlags{}
		command := &cobra.Command{}
		BindAttributeFlag(command, flags)
		BindValueFlag(command, flags)
		if err := command.ParseFlags(args); err != nil {
			t.Fatalf("ParseFlags returned error: %v", err)
		}
		return command, flags
	}

	command, flags := newCommand()
	attribute, value, hasValue, err := ResolveAttributeArgs(command, *flags, []string{"cpus", "8"})
	if err != nil || attribute != "cpus" || value != "8" || !hasValue {
		t.Fatalf("positional: got %q %q %t %v", attribute, value, hasValue, err)
	}

	command, flags = newCommand("--attribute", "cpus", "--value", "")
	attribute, value, hasValue, err = ResolveAttributeArgs(command, *flags, nil)
	if err != nil || attribute != "cpus" || value != "" || !hasValue {
		t.Fatalf("flags: got %q %q %t %v", attribute, value, hasValue, err)
	}

	command, flags = newCommand("--attribute", "cpus")
	if _, _, _, err := ResolveAttributeArgs(command, *flags, []string{"roles"}); !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestOutputFlagRejectsUnknownFormat(t *testing.T) {
	t.Parallel()

	var flags GlobalFlags
	command := &cobra.Command{}
	BindGlobalFlags(command, &flags)

	if flags.Output != OutputAuto {
		t.Fatalf("default output = %q, want %q", flags.Output, OutputAuto)
	}
	if err := command.ParseFlags([]string{"--output", " YAML "}); err != nil {
		t.Fatalf("ParseFlags returned error: %v", err)
	}
	if flags.Output != OutputYAML {
		t.Fatalf("output = %q, want %q", flags.Output, OutputYAML)
	}
	if err := command.ParseFlags([]string{"-o", "xml"}); err == nil {
		t.Fatal("expected unknown format to be rejected")
	}
}
