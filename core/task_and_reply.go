package core

// AddTaskAndReply enqueues task; when it completes without panicking, reply
// is enqueued in turn. Because tasks submitted during a tick are not
// visible to that tick, the reply runs on a later tick than the task.
//
// A panicking task unwinds before the reply is enqueued, so the reply never
// runs after a failed task.
func AddTaskAndReply(q *TaskQueue, info TaskInfo, task TaskFunc, replyInfo TaskInfo, reply TaskFunc) {
	q.AddTask(info, func() {
		task()
		q.AddTask(replyInfo, reply)
	})
}
