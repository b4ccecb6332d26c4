package herald

import "errors"

// ErrCanceled is returned from [Subscription.Next] once the
// subscription has been canceled and its buffered values drained,
// whether via [Subscription.Cancel] or [Hub.Close].
var ErrCanceled = errors.New("subscription canceled")
