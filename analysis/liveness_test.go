package analysis

import (
	"testing"

	"github.com/minic-lang/minic-analyzer/diagnostic"
)

func TestDeadStoreOnImmediatelyOverwrittenLocal(t *testing.T) {
	sink := runFunc(t, `int main() { int x = 10; x = 20; print(x); return 0; }`)
	if countKind(sink, diagnostic.DeadStore) != 1 {
		t.Fatalf("got %v, want exactly one DeadStore", kinds(sink))
	}
}

func TestNoDeadStoreWhenEveryAssignmentIsRead(t *testing.T) {
	sink := runFunc(t, `int main() { int x = 10; print(x); x = 20; print(x); return 0; }`)
	if hasKind(sink, diagnostic.DeadStore) {
		t.Fatalf("got %v, want no DeadStore: both stores are read", kinds(sink))
	}
}

func TestPrintCountsAsAUse(t *testing.T) {
	sink := runFunc(t, `int main() { int x = 1; print(x); return 0; }`)
	if hasKind(sink, diagnostic.DeadStore) {
		t.Fatalf("got %v, want no DeadStore: print(x) reads x", kinds(sink))
	}
}

func TestReturnExpressionCountsAsAUse(t *testing.T) {
	sink := runFunc(t, `int main() { int x = 1; return x; }`)
	if hasKind(sink, diagnostic.DeadStore) {
		t.Fatalf("got %v, want no DeadStore: return x reads x", kinds(sink))
	}
}

func TestDeadStoreOnParameterReassignment(t *testing.T) {
	sink := runFunc(t, `int f(int a) { a = 5; return 0; }`)
	if countKind(sink, diagnostic.DeadStore) != 1 {
		t.Fatalf("got %v, want exactly one DeadStore for the unread reassigned parameter", kinds(sink))
	}
}

func TestUnreassignedParameterIsNotADeadStore(t *testing.T) {
	sink := runFunc(t, `int f(int a) { return 0; }`)
	if hasKind(sink, diagnostic.DeadStore) {
		t.Fatalf("got %v, want no DeadStore: a is never assigned, only (implicitly) unread", kinds(sink))
	}
}

func TestDeadStoreOnOneLoopBranchStillReadOnTheOther(t *testing.T) {
	sink := runFunc(t, `int main() {
		int x = 0;
		int i = 0;
		while (i < 10) {
			x = i;
			i = i + 1;
		}
		print(x);
		return 0;
	}`)
	if hasKind(sink, diagnostic.DeadStore) {
		t.Fatalf("got %v, want no DeadStore: x is read after the loop on every iteration's exit", kinds(sink))
	}
}
