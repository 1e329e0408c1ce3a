// Package testutil provides test utilities and mock implementations for simpledb testing.
//
// # Mock Implementations
//
//   - [MockConn]: Scriptable sqladapter.Conn recording every statement
//   - [MockStmt]: Prepared statement bound to a MockConn
//   - [MockFactory]: sqladapter.Factory handing out MockConns
//   - [RecordingLogger]: types.Logger capturing entries per level
//   - [TestMetricsCollector]: types.MetricsCollector with readable counters
//
// # Usage
//
//	write := testutil.NewMockFactory("write")
//	write.OnCreate = func(c *testutil.MockConn) {
//	    c.FailWith("SELECT 1", testutil.ErrTransport)
//	}
//
//	client, _ := simpledb.New(write.Factory(), nil)
//
// # Integration Test Helpers
//
//   - [StartMySQL]: Starts a MySQL test container (requires Docker)
package testutil
